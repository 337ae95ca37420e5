package config

import "time"

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// ReadBuffer is the per-connection read size in bytes. One read is one
	// request, so this is also the request size limit.
	ReadBuffer int `koanf:"read_buffer"`

	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is requests per second per client IP. 0 disables it.
	RateLimit int `koanf:"rate_limit"`

	TLS TLSConfig `koanf:"tls"`
}

// TLSConfig configures the optional TLS listener.
type TLSConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
}

// HTTPConfig configures the admin HTTP server (/metrics, /healthz, /version).
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
