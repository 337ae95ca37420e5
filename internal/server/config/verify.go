package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyRedis(&cfg.Server.Redis); err != nil {
		return err
	}
	if cfg.Server.HTTP.Enabled {
		if err := verifyAddr("server.http.addr", cfg.Server.HTTP.Addr); err != nil {
			return err
		}
	}
	return verifyLog(&cfg.Log)
}

func verifyRedis(cfg *RedisConfig) error {
	if err := verifyAddr("server.redis.addr", cfg.Addr); err != nil {
		return err
	}
	if cfg.ReadBuffer < 16 {
		return fmt.Errorf("%w: server.redis.read_buffer must be at least 16 bytes", ErrInvalidConfig)
	}
	if cfg.IdleTimeout < 0 {
		return fmt.Errorf("%w: server.redis.idle_timeout must not be negative", ErrInvalidConfig)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("%w: server.redis.write_timeout must be positive", ErrInvalidConfig)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("%w: server.redis.rate_limit must not be negative", ErrInvalidConfig)
	}

	if !cfg.TLS.Enabled {
		return nil
	}
	if err := verifyAddr("server.redis.tls.addr", cfg.TLS.Addr); err != nil {
		return err
	}
	if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
		return fmt.Errorf("%w: server.redis.tls requires both cert_file and key_file", ErrInvalidConfig)
	}
	for _, f := range []string{cfg.TLS.CertFile, cfg.TLS.KeyFile} {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("%w: tls file: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

func verifyAddr(field, addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, field)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, field, err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalidConfig, cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	}
	return fmt.Errorf("%w: unknown log.format %q", ErrInvalidConfig, cfg.Format)
}
