// Package logger provides structured logging for respkv.
//
// It wraps the standard library log/slog:
//
//   - logger.go: handler construction and the process-wide level
//   - context.go: context propagation of connection and request IDs
//   - redact.go: masking of secrets and truncation of client payloads
//
// The level is held in a shared slog.LevelVar so that the config watcher
// can change it at runtime.
package logger
