package command

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"
)

// ============================================================================
// Tests: ping / echo / get / set / raw
// ============================================================================

func TestPing(t *testing.T) {
	addr, _ := startServer(t)

	res := runCLI(t, "", "-s", addr, "ping")
	if res.err != nil || res.stdout != "PONG\n" {
		t.Errorf("ping = %q, %v", res.stdout, res.err)
	}

	res = runCLI(t, "", "-s", addr, "ping", "hi")
	if res.err != nil || res.stdout != "\"hi\"\n" {
		t.Errorf("ping hi = %q, %v", res.stdout, res.err)
	}

	res = runCLI(t, "", "-s", addr, "ping", "a", "b")
	if res.err == nil {
		t.Error("ping with two args should fail locally")
	}
}

func TestEcho(t *testing.T) {
	addr, _ := startServer(t)

	res := runCLI(t, "", "-s", addr, "echo", "hello", "world")
	if res.err != nil || res.stdout != "\"hello world\"\n" {
		t.Errorf("echo = %q, %v", res.stdout, res.err)
	}
}

func TestGet(t *testing.T) {
	addr, store := startServer(t)
	store.Set("k", "v", time.Time{})

	res := runCLI(t, "", "-s", addr, "get", "k")
	if res.err != nil || res.stdout != "\"v\"\n" {
		t.Errorf("get = %q, %v", res.stdout, res.err)
	}

	res = runCLI(t, "", "-s", addr, "get", "missing")
	if res.err != nil || res.stdout != "(nil)\n" {
		t.Errorf("get missing = %q, %v", res.stdout, res.err)
	}
}

func TestSet(t *testing.T) {
	addr, store := startServer(t)

	res := runCLI(t, "", "-s", addr, "set", "--ex", "100", "k", "v1")
	if res.err != nil || res.stdout != "OK\n" {
		t.Fatalf("set = %q, %v", res.stdout, res.err)
	}
	if ttl, ok := store.TTL("k"); !ok || ttl <= 0 || ttl > 100*time.Second {
		t.Errorf("TTL = %v", ttl)
	}

	res = runCLI(t, "", "-s", addr, "set", "--get", "k", "v2")
	if res.err != nil || res.stdout != "\"v1\"\n" {
		t.Errorf("set --get = %q, %v", res.stdout, res.err)
	}

	res = runCLI(t, "", "-s", addr, "set", "--nx", "k", "v3")
	if !errors.Is(res.err, ErrErrorReply) {
		t.Errorf("set --nx on existing key error = %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "(error) ERR") {
		t.Errorf("set --nx output = %q", res.stdout)
	}
	if v, _ := store.Get("k"); v != "v2" {
		t.Errorf("value = %q, want v2", v)
	}
}

func TestSet_Usage(t *testing.T) {
	res := runCLI(t, "", "set", "only-key")
	if res.err == nil || !strings.Contains(res.err.Error(), "usage:") {
		t.Errorf("error = %v, want usage error", res.err)
	}
}

func TestRaw(t *testing.T) {
	addr, _ := startServer(t)

	res := runCLI(t, "", "-s", addr, "-o", "json", "raw", "ECHO", "x")
	if res.err != nil || res.stdout != "\"x\"\n" {
		t.Errorf("raw = %q, %v", res.stdout, res.err)
	}

	res = runCLI(t, "", "-s", addr, "raw", "NOPE")
	if !errors.Is(res.err, ErrErrorReply) {
		t.Errorf("raw NOPE error = %v", res.err)
	}
}

func TestSetArgs(t *testing.T) {
	app := App()
	var got []string
	for _, cmd := range app.Commands {
		if cmd.Name == "set" {
			cmd.Action = func(c *cli.Context) error {
				got = setArgs(c)
				return nil
			}
		}
	}

	err := app.Run([]string{"respkv-cli", "--config", t.TempDir() + "/none.yaml",
		"set", "--xx", "--px", "1500", "--get", "k", "v"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"SET", "k", "v", "XX", "PX", "1500", "GET"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("setArgs() = %v, want %v", got, want)
	}
}

func TestConnectionRefused(t *testing.T) {
	res := runCLI(t, "", "-s", "127.0.0.1:1", "--timeout", "500ms", "ping")
	if res.err == nil || !strings.Contains(res.err.Error(), "connect") {
		t.Errorf("error = %v, want connect error", res.err)
	}
}
