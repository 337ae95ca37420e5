// Package config loads the optional respkv-cli settings file
// (~/.respkv/cli.yaml). Values from the file become flag defaults; explicit
// flags and RESPKV_* environment variables still win.
package config
