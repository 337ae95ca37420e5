// Package buildinfo exposes version information injected at build time:
//
//	go build -ldflags "-X github.com/yndnr/respkv/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/respkv/internal/infra/buildinfo.Commit=abc123"
//
// When Commit or BuildTime are not injected, the VCS stamp recorded by the
// Go toolchain is used if present.
package buildinfo
