// Package repl provides the interactive mode of respkv-cli.
//
// Each input line is split into arguments with redis-cli quoting rules and
// handed to an Executor. A line ending in "?" lists the command names that
// start with the text before it. History persists to ~/.respkv/history.
package repl
