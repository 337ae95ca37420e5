package redisserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/cmap"
)

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the plaintext listen address.
	Addr string
	// TLSEnabled enables a second, TLS-wrapped listener.
	TLSEnabled bool
	// TLSAddr is the address for the TLS listener.
	TLSAddr string
	// TLSConfig is required if TLSEnabled is true.
	TLSConfig *tls.Config
	// ReadBuffer is the size of the per-connection read buffer, which is
	// also the largest request accepted.
	ReadBuffer int
	// IdleTimeout closes connections that send nothing for this long.
	// Zero keeps idle connections open indefinitely.
	IdleTimeout time.Duration
	// WriteTimeout bounds writing one reply.
	WriteTimeout time.Duration
	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6379",
		TLSAddr:      "127.0.0.1:6380",
		ReadBuffer:   64 * 1024,
		WriteTimeout: 30 * time.Second,
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.Addr == "" {
		out.Addr = def.Addr
	}
	if out.ReadBuffer <= 0 {
		out.ReadBuffer = def.ReadBuffer
	}
	if out.IdleTimeout < 0 {
		out.IdleTimeout = 0
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = def.WriteTimeout
	}
	return &out
}

// Server is the RESP listener.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	metrics *metric.Registry
	logger  *slog.Logger

	mu      sync.Mutex
	plainLn net.Listener
	tlsLn   net.Listener

	conns    *cmap.Map[*Conn]
	limiters *cmap.Map[*clientLimiter]

	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a server for store. metrics may be nil.
func New(cfg *Config, store *memory.Store, metrics *metric.Registry, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:      cfg.withDefaults(),
		handler:  NewCommandHandler(store, metrics, logger),
		metrics:  metrics,
		logger:   logger,
		conns:    cmap.New[*Conn](),
		limiters: cmap.New[*clientLimiter](),
	}
}

// Start binds the listeners and serves them in the background.
// It returns once the listeners are bound.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	var tlsLn net.Listener
	if s.cfg.TLSEnabled {
		if s.cfg.TLSConfig == nil {
			_ = ln.Close()
			return errors.New("tls enabled but no TLS config provided")
		}
		tlsLn, err = tls.Listen("tcp", s.cfg.TLSAddr, s.cfg.TLSConfig)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("listen tls %s: %w", s.cfg.TLSAddr, err)
		}
	}

	s.mu.Lock()
	s.plainLn, s.tlsLn = ln, tlsLn
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("resp server listening", "address", ln.Addr().String())
	s.serve(ctx, ln)

	if tlsLn != nil {
		s.logger.Info("resp tls server listening", "address", tlsLn.Addr().String())
		s.serve(ctx, tlsLn)
	}

	return nil
}

func (s *Server) serve(ctx context.Context, ln net.Listener) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil {
			s.logger.Error("accept loop stopped", "address", ln.Addr().String(), "error", err)
		}
	}()
}

// Addr returns the bound plaintext address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plainLn == nil {
		return nil
	}
	return s.plainLn.Addr()
}

// TLSAddr returns the bound TLS address, or nil when TLS is off.
func (s *Server) TLSAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tlsLn == nil {
		return nil
	}
	return s.tlsLn.Addr()
}

// ConnCount returns the number of open client connections.
func (s *Server) ConnCount() int {
	return s.conns.Count()
}

// Shutdown closes the listeners and every open connection, then waits for
// their goroutines or for ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error

	s.mu.Lock()
	for _, ln := range []net.Listener{s.plainLn, s.tlsLn} {
		if ln == nil {
			continue
		}
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	s.mu.Unlock()

	s.conns.Range(func(_ string, c *Conn) bool {
		_ = c.Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("resp server stopped")
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return err
		}

		ip := clientIP(nc.RemoteAddr())
		c := newConn(nc, s.acquireLimiter(ip))
		s.conns.Set(c.id, c)
		s.metrics.ConnOpened()
		if !s.running.Load() {
			// Shutdown may already have swept the registry.
			_ = c.Close()
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				s.conns.Delete(c.id)
				if c.limiter != nil {
					s.releaseLimiter(ip)
				}
				s.metrics.ConnClosed()
			}()
			s.serveConn(ctx, c)
		}()
	}
}

// clientLimiter is a rate limiter shared by every open connection from one
// IP. The entry is dropped when its last connection closes.
type clientLimiter struct {
	limiter *rate.Limiter
	refs    int
}

func clientIP(addr net.Addr) string {
	ip := addr.String()
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return ip
}

// acquireLimiter returns the shared limiter for ip, or nil when rate
// limiting is off. Every non-nil result must be paired with releaseLimiter.
func (s *Server) acquireLimiter(ip string) *rate.Limiter {
	if s.cfg.RateLimit <= 0 {
		return nil
	}
	cl, _ := s.limiters.Compute(ip, func(cl *clientLimiter, loaded bool) (*clientLimiter, bool) {
		if !loaded {
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateLimit)}
		}
		cl.refs++
		return cl, true
	})
	return cl.limiter
}

func (s *Server) releaseLimiter(ip string) {
	s.limiters.Compute(ip, func(cl *clientLimiter, loaded bool) (*clientLimiter, bool) {
		if !loaded {
			return nil, false
		}
		cl.refs--
		return cl, cl.refs > 0
	})
}
