package repl

import (
	"sort"
	"strings"
)

// Completer provides command name completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer for the commands respkv-server knows
// plus the REPL built-ins.
func NewCompleter() *Completer {
	cmds := []string{
		"PING", "ECHO", "GET", "SET",
		"help", "history", "exit", "quit",
	}
	sort.Strings(cmds)
	return &Completer{commands: cmds}
}

// Commands returns every known command name.
func (c *Completer) Commands() []string {
	return append([]string(nil), c.commands...)
}

// Complete returns the commands starting with prefix, ignoring case.
// An empty prefix matches everything.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if len(prefix) <= len(cmd) && strings.EqualFold(cmd[:len(prefix)], prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
