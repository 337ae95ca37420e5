package config

import "path/filepath"

// Sanitize returns a copy of the config that is safe to log.
// The TLS key path is reduced to its base name.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if key := sanitized.Server.Redis.TLS.KeyFile; key != "" {
		sanitized.Server.Redis.TLS.KeyFile = maskPath(key)
	}

	return &sanitized
}

func maskPath(p string) string {
	return "****/" + filepath.Base(p)
}
