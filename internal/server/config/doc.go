// Package config provides the respkv-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values and their flat key form for confloader
//   - verify.go: validation of addresses, timeouts and TLS files
//   - sanitize.go: copy of the config that is safe to log
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// environment variables (RESPKV_ prefix) and command-line flags.
package config
