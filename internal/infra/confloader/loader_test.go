package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		Redis struct {
			Addr        string        `koanf:"addr"`
			ReadBuffer  int           `koanf:"read_buffer"`
			IdleTimeout time.Duration `koanf:"idle_timeout"`
		} `koanf:"redis"`
		HTTP struct {
			Enabled bool `koanf:"enabled"`
		} `koanf:"http"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func testDefaults() map[string]any {
	return map[string]any{
		"server.redis.addr":         "127.0.0.1:6379",
		"server.redis.read_buffer":  65536,
		"server.redis.idle_timeout": 5 * time.Minute,
		"server.http.enabled":       false,
		"log.level":                 "info",
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestNewLoader_Options(t *testing.T) {
	l := NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/etc/respkv.yaml"), WithDotEnv(".env"))

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q", l.envPrefix)
	}
	if l.FilePath() != "/etc/respkv.yaml" {
		t.Errorf("FilePath() = %q", l.FilePath())
	}
	if l.dotEnv != ".env" {
		t.Errorf("dotEnv = %q", l.dotEnv)
	}
	if NewLoader().envPrefix != DefaultEnvPrefix {
		t.Error("default prefix not applied")
	}
}

func TestLoader_Defaults(t *testing.T) {
	var cfg testConfig
	if err := NewLoader(WithDefaults(testDefaults())).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("addr = %q", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.ReadBuffer != 65536 {
		t.Errorf("read_buffer = %d", cfg.Server.Redis.ReadBuffer)
	}
	if cfg.Server.Redis.IdleTimeout != 5*time.Minute {
		t.Errorf("idle_timeout = %v", cfg.Server.Redis.IdleTimeout)
	}
}

func TestLoader_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, "respkv.yaml", `
server:
  redis:
    addr: "0.0.0.0:7000"
    idle_timeout: 30s
log:
  level: debug
`)

	var cfg testConfig
	l := NewLoader(WithDefaults(testDefaults()), WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "0.0.0.0:7000" {
		t.Errorf("addr = %q", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.IdleTimeout != 30*time.Second {
		t.Errorf("idle_timeout = %v", cfg.Server.Redis.IdleTimeout)
	}
	if cfg.Server.Redis.ReadBuffer != 65536 {
		t.Errorf("read_buffer default lost: %d", cfg.Server.Redis.ReadBuffer)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
}

func TestLoader_FileNotFound(t *testing.T) {
	var cfg testConfig
	err := NewLoader(WithConfigFile("/nonexistent/respkv.yaml")).Load(&cfg)
	if err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "respkv.yaml", "server:\n  redis:\n    addr: \"0.0.0.0:7000\"\n")
	t.Setenv("RESPKV_SERVER_REDIS_ADDR", "10.0.0.1:6379")
	t.Setenv("RESPKV_SERVER_REDIS_READ_BUFFER", "1024")
	t.Setenv("RESPKV_SERVER_HTTP_ENABLED", "true")

	var cfg testConfig
	l := NewLoader(WithDefaults(testDefaults()), WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "10.0.0.1:6379" {
		t.Errorf("addr = %q, want env value", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.ReadBuffer != 1024 {
		t.Errorf("read_buffer = %d, want 1024", cfg.Server.Redis.ReadBuffer)
	}
	if !cfg.Server.HTTP.Enabled {
		t.Error("http.enabled should be true from env")
	}
}

func TestLoader_EnvUnknownKeyUsesDots(t *testing.T) {
	t.Setenv("RESPKV_EXTRA_SECTION_NAME", "x")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := l.GetString("extra.section.name"); got != "x" {
		t.Errorf("extra.section.name = %q", got)
	}
}

func TestLoader_DotEnv(t *testing.T) {
	path := writeFile(t, ".env", "RESPKV_LOG_LEVEL=warn\nRESPKV_SERVER_REDIS_ADDR=127.0.0.1:9999\n")
	// Real environment beats the .env file.
	t.Setenv("RESPKV_SERVER_REDIS_ADDR", "127.0.0.1:7777")
	t.Cleanup(func() { os.Unsetenv("RESPKV_LOG_LEVEL") })

	var cfg testConfig
	if err := NewLoader(WithDefaults(testDefaults()), WithDotEnv(path)).Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn from .env", cfg.Log.Level)
	}
	if cfg.Server.Redis.Addr != "127.0.0.1:7777" {
		t.Errorf("addr = %q, want real env value", cfg.Server.Redis.Addr)
	}
}

func TestLoader_DotEnvMissing(t *testing.T) {
	var cfg testConfig
	if err := NewLoader(WithDotEnv("/nonexistent/.env")).Load(&cfg); err == nil {
		t.Error("Load() should fail for a missing .env file")
	}
}

func TestLoader_LoadMapOverrides(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithDefaults(testDefaults()))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := l.LoadMap(map[string]any{"server.redis.addr": ":1234"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if cfg.Server.Redis.Addr != ":1234" {
		t.Errorf("addr = %q", cfg.Server.Redis.Addr)
	}
	if l.GetInt("server.redis.read_buffer") != 65536 {
		t.Errorf("GetInt() = %d", l.GetInt("server.redis.read_buffer"))
	}
	if l.GetBool("server.http.enabled") {
		t.Error("GetBool() should be false")
	}
}

func TestLoader_Reload(t *testing.T) {
	path := writeFile(t, "respkv.yaml", "log:\n  level: debug\n")
	l := NewLoader(WithDefaults(testDefaults()), WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var reloaded testConfig
	if err := l.Reload(&reloaded); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if reloaded.Log.Level != "error" {
		t.Errorf("log.level = %q after reload", reloaded.Log.Level)
	}
}

func TestMapProvider(t *testing.T) {
	p := mapProvider{"a.b": 1, "c": map[string]any{"d": 2}}

	if _, err := p.ReadBytes(); err != ErrReadBytesNotSupported {
		t.Errorf("ReadBytes() error = %v", err)
	}

	m, err := p.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	a, ok := m["a"].(map[string]any)
	if !ok || a["b"] != 1 {
		t.Errorf("Read() = %#v, want a.b unflattened", m)
	}
}
