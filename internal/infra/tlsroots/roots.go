package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned when a PEM file holds no certificates.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM file")

// LoadCAFile returns a pool holding every certificate in the PEM file at path.
func LoadCAFile(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: read ca file %s: %w", path, err)
	}

	pool := x509.NewCertPool()
	added := 0
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		pool.AddCert(cert)
		added++
	}

	if added == 0 {
		return nil, ErrNoCertsFound
	}
	return pool, nil
}

// ClientOptions describes how a client verifies the server.
type ClientOptions struct {
	// CAFile replaces the system roots when set.
	CAFile string
	// ServerName overrides the name checked against the certificate.
	ServerName string
	// InsecureSkipVerify disables verification entirely.
	InsecureSkipVerify bool
}

// ClientConfig builds a client TLS config from opts.
func ClientConfig(opts ClientOptions) (*tls.Config, error) {
	cfg := &tls.Config{
		ServerName:         opts.ServerName,
		InsecureSkipVerify: opts.InsecureSkipVerify, //nolint:gosec // opt-in flag
		MinVersion:         tls.VersionTLS12,
	}

	if opts.CAFile != "" {
		pool, err := LoadCAFile(opts.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}
