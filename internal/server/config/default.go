package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultTLSAddr      = "127.0.0.1:6380"
	DefaultHTTPAddr     = "127.0.0.1:9121"
	DefaultReadBuffer   = 64 * 1024
	DefaultIdleTimeout  = 0 // no idle deadline
	DefaultWriteTimeout = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:         DefaultRedisAddr,
				ReadBuffer:   DefaultReadBuffer,
				IdleTimeout:  DefaultIdleTimeout,
				WriteTimeout: DefaultWriteTimeout,
				TLS: TLSConfig{
					Addr: DefaultTLSAddr,
				},
			},
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Map flattens cfg into dotted koanf keys, for confloader.WithDefaults.
func (cfg *ServerConfig) Map() map[string]any {
	r := cfg.Server.Redis
	return map[string]any{
		"server.redis.addr":          r.Addr,
		"server.redis.read_buffer":   r.ReadBuffer,
		"server.redis.idle_timeout":  r.IdleTimeout,
		"server.redis.write_timeout": r.WriteTimeout,
		"server.redis.rate_limit":    r.RateLimit,
		"server.redis.tls.enabled":   r.TLS.Enabled,
		"server.redis.tls.addr":      r.TLS.Addr,
		"server.redis.tls.cert_file": r.TLS.CertFile,
		"server.redis.tls.key_file":  r.TLS.KeyFile,
		"server.http.enabled":        cfg.Server.HTTP.Enabled,
		"server.http.addr":           cfg.Server.HTTP.Addr,
		"log.level":                  cfg.Log.Level,
		"log.format":                 cfg.Log.Format,
	}
}
