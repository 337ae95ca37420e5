// Package command defines the respkv-cli command tree using urfave/cli/v2.
//
//   - root.go: App, global flags, settings resolution, REPL mode
//   - kv.go: ping, echo, get, set and raw
//   - decode.go: offline decoding of a RESP frame
//
// Without a subcommand the CLI starts the interactive REPL.
package command
