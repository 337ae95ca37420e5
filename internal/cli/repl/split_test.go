package repl

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   \t ", nil},
		{"plain", "SET k v", []string{"SET", "k", "v"}},
		{"extra spaces", "  GET   k  ", []string{"GET", "k"}},
		{"double quoted", `SET k "hello world"`, []string{"SET", "k", "hello world"}},
		{"empty quoted", `SET k ""`, []string{"SET", "k", ""}},
		{"escapes", `ECHO "a\nb\t\"c\"\\"`, []string{"ECHO", "a\nb\t\"c\"\\"}},
		{"hex escape", `ECHO "\x41\x0d\x0a"`, []string{"ECHO", "A\r\n"}},
		{"single quoted", `ECHO 'a "b" \n'`, []string{"ECHO", `a "b" \n`}},
		{"single quote escape", `ECHO 'it\'s'`, []string{"ECHO", "it's"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			if err != nil {
				t.Fatalf("SplitArgs(%q) error = %v", tt.line, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArgs(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplitArgs_Unbalanced(t *testing.T) {
	lines := []string{
		`SET k "open`,
		`SET k 'open`,
		`SET k "closed"tail`,
		`SET k 'closed'tail`,
	}

	for _, line := range lines {
		if _, err := SplitArgs(line); !errors.Is(err, ErrUnbalancedQuotes) {
			t.Errorf("SplitArgs(%q) error = %v, want ErrUnbalancedQuotes", line, err)
		}
	}
}
