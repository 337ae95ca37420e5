// Package confloader loads respkv configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults (WithDefaults)
//  2. YAML configuration file (WithConfigFile)
//  3. A .env file, merged into the process environment (WithDotEnv)
//  4. Environment variables (RESPKV_ prefix)
//  5. Explicit overrides such as command-line flags (LoadMap)
//
// Environment names map onto keys by replacing "_" with "." after the
// prefix. When a default key exists whose dotted form matches, that key
// wins, so RESPKV_SERVER_REDIS_READ_BUFFER sets server.redis.read_buffer.
//
// Watcher reports writes to a configuration file using fsnotify.
package confloader
