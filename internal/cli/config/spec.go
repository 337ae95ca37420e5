package config

import "time"

// CLIConfig is the configuration for respkv-cli.
type CLIConfig struct {
	Server      string        `yaml:"server"`
	Output      string        `yaml:"output"` // text, json, yaml
	Timeout     time.Duration `yaml:"timeout"`
	HistoryFile string        `yaml:"history_file"`
	TLS         TLSConfig     `yaml:"tls"`
}

// TLSConfig holds client TLS settings.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled"`
	CAFile             string `yaml:"ca_file"`
	ServerName         string `yaml:"server_name"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "127.0.0.1:6379",
		Output:  "text",
		Timeout: 10 * time.Second,
	}
}
