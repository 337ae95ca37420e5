package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Executor runs one command line that has already been split into args.
type Executor func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithPrompt sets the prompt string.
func WithPrompt(prompt string) Option {
	return func(r *REPL) { r.prompt = prompt }
}

// WithHistory replaces the default history.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// New creates a REPL that runs lines through exec.
func New(exec Executor, in io.Reader, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		input:     in,
		output:    out,
		prompt:    "respkv> ",
		exec:      exec,
		completer: NewCompleter(),
		history:   NewHistory(DefaultHistoryFile(), DefaultHistorySize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until EOF, "exit" or "quit", or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: load history: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: save history: %v\n", err)
		}
	}()

	scanner := bufio.NewScanner(r.input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(r.output, r.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.output)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if r.handle(ctx, line) {
			return nil
		}
	}
}

// handle processes one non-empty line and reports whether to stop.
func (r *REPL) handle(ctx context.Context, line string) bool {
	if prefix, ok := strings.CutSuffix(line, "?"); ok {
		r.printCompletions(prefix)
		return false
	}

	r.history.Add(line)

	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	case "help":
		r.printHelp()
		return false
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false
	}

	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		return false
	}

	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
	}
	return false
}

func (r *REPL) printCompletions(prefix string) {
	suggestions := r.completer.Complete(strings.TrimSpace(prefix))
	if len(suggestions) == 0 {
		fmt.Fprintln(r.output, "(no matches)")
		return
	}
	fmt.Fprintln(r.output, strings.Join(suggestions, "  "))
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, "Commands are sent to the server as typed, e.g. SET key \"hello world\" EX 10")
	fmt.Fprintln(r.output, "Known commands: "+strings.Join(r.completer.Commands(), " "))
	fmt.Fprintln(r.output, "Type a prefix followed by ? to list matching commands.")
	fmt.Fprintln(r.output, "Type history to list previous lines, exit or quit to leave.")
}
