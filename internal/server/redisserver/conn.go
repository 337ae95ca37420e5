package redisserver

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/pkg/resp"
)

// Conn represents a single client connection.
type Conn struct {
	id      string
	netConn net.Conn
	limiter *rate.Limiter

	closed atomic.Bool
}

func newConn(c net.Conn, limiter *rate.Limiter) *Conn {
	return &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		limiter: limiter,
	}
}

// ID returns the connection's ULID.
func (c *Conn) ID() string {
	return c.id
}

// Close closes the underlying socket. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// serveConn runs the read, dispatch, write loop until the peer goes away,
// a deadline passes or the server closes the connection.
func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	ctx = logger.WithConnID(ctx, c.id)
	log := logger.L(ctx).With("remote", c.RemoteAddr().String())

	buf := make([]byte, s.cfg.ReadBuffer)
	for {
		if s.cfg.IdleTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
		}

		n, err := c.netConn.Read(buf)
		if n == 0 {
			switch {
			case err == nil, errors.Is(err, io.EOF):
				log.Debug("client disconnected")
			case c.closed.Load(), errors.Is(err, net.ErrClosed):
				log.Debug("connection closed by server")
			case isTimeout(err):
				log.Debug("connection timed out")
			default:
				log.Debug("connection read error", "error", err)
			}
			return
		}

		reply := s.process(ctx, c, buf[:n])

		if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return
		}
		if _, err := c.netConn.Write(reply); err != nil {
			log.Debug("connection write error", "error", err)
			return
		}
	}
}

// process turns one request buffer into one reply.
func (s *Server) process(ctx context.Context, c *Conn, request []byte) []byte {
	if c.limiter != nil && !c.limiter.Allow() {
		return resp.MustEncode(resp.SimpleError("ERR rate limit exceeded"))
	}

	res := resp.Decode(request, 0)
	if !res.Success() {
		s.metrics.ProtocolError()
		logger.L(ctx).Debug("protocol error", "error", res.Err, "request", string(request))
		msg := strings.TrimPrefix(res.Message(), resp.ErrProtocol.Error()+": ")
		return encodeReply(errorf("ERR protocol error: %s", msg))
	}
	if res.Next < len(request) {
		logger.L(ctx).Debug("discarding trailing bytes", "bytes", len(request)-res.Next)
	}

	return s.handler.Handle(ctx, res.Value)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
