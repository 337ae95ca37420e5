// Command respkv-cli is the command-line client for respkv-server.
//
// It runs a single command (ping, echo, get, set, raw) against the server,
// decodes RESP frames offline (decode), or starts an interactive REPL when
// no command is given.
package main
