package repl

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func newTestREPL(input string, rec *recorder) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	r := New(rec.exec, strings.NewReader(input), out, WithHistory(NewHistory("", 10)))
	return r, out
}

// ============================================================================
// Tests: Run
// ============================================================================

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "QUIT\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r, _ := newTestREPL(tt.input+"PING\n", rec)
			if tt.input == "" {
				r, _ = newTestREPL("", rec)
			}

			if err := r.Run(context.Background()); err != nil {
				t.Errorf("Run() error = %v", err)
			}
			if len(rec.calls) != 0 {
				t.Errorf("commands after exit were executed: %v", rec.calls)
			}
		})
	}
}

func TestREPL_Run_ExecutesCommands(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("\n  \nSET k \"hello world\"\nget k\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{{"SET", "k", "hello world"}, {"get", "k"}}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if strings.Count(out.String(), "respkv> ") != 5 {
		t.Errorf("unexpected prompt count in %q", out.String())
	}
}

func TestREPL_Run_ExecutorError(t *testing.T) {
	rec := &recorder{err: errors.New("connection refused")}
	r, out := newTestREPL("PING\nexit\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "(error) connection refused") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Run_UnbalancedQuotes(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("SET k \"oops\nexit\n", rec)

	_ = r.Run(context.Background())
	if len(rec.calls) != 0 {
		t.Errorf("calls = %v, want none", rec.calls)
	}
	if !strings.Contains(out.String(), "unbalanced quotes") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Run_Completion(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("s?\nzz?\nexit\n", rec)

	_ = r.Run(context.Background())
	if !strings.Contains(out.String(), "SET") {
		t.Errorf("completion output = %q", out.String())
	}
	if !strings.Contains(out.String(), "(no matches)") {
		t.Errorf("missing no-match output in %q", out.String())
	}
	if r.history.Len() != 1 {
		t.Errorf("completion queries should not enter history, len = %d", r.history.Len())
	}
}

func TestREPL_Run_HelpAndHistory(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("PING\nhelp\nhistory\nexit\n", rec)

	_ = r.Run(context.Background())
	if !strings.Contains(out.String(), "Known commands:") {
		t.Errorf("help missing in %q", out.String())
	}
	if !strings.Contains(out.String(), "   1  PING") {
		t.Errorf("history listing missing in %q", out.String())
	}
	if len(rec.calls) != 1 {
		t.Errorf("built-ins should not reach the executor: %v", rec.calls)
	}
}

func TestREPL_Run_PersistsHistory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sub", "history")
	rec := &recorder{}
	r := New(rec.exec, strings.NewReader("PING\nGET k\n"), &bytes.Buffer{},
		WithHistory(NewHistory(file, 10)), WithPrompt("> "))

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	h := NewHistory(file, 10)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(h.Entries(), []string{"PING", "GET k"}) {
		t.Errorf("persisted = %v", h.Entries())
	}
}

func TestREPL_Run_CancelledContext(t *testing.T) {
	rec := &recorder{}
	r, _ := newTestREPL("PING\n", rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("calls = %v, want none", rec.calls)
	}
}
