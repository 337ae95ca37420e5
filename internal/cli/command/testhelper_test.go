package command

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// startServer runs an in-process respkv server on a random port.
func startServer(t *testing.T) (string, *memory.Store) {
	t.Helper()

	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	store := memory.New(memory.WithLogger(logger.Discard()))
	srv := redisserver.New(cfg, store, nil, logger.Discard())
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String(), store
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI runs the app with a private settings file and history file.
func runCLI(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr

	full := []string{
		"respkv-cli",
		"--config", filepath.Join(dir, "cli.yaml"),
		"--history-file", filepath.Join(dir, "history"),
	}
	full = append(full, args...)

	err := app.Run(full)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
