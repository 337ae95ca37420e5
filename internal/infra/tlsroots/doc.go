// Package tlsroots provides TLS material for respkv.
//
//   - roots.go: CA pools and the client-side TLS config used by respkv-cli
//   - watcher.go: server certificate that reloads when its files change
package tlsroots
