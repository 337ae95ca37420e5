package connection

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// DefaultTimeout bounds dialing and each request round trip.
const DefaultTimeout = 10 * time.Second

// maxReplySize caps how much a single reply may buffer.
const maxReplySize = 64 << 20

// ErrReplyTooLarge is returned when a reply exceeds maxReplySize.
var ErrReplyTooLarge = errors.New("reply too large")

// Options configures a Client.
type Options struct {
	// Addr is the server host:port.
	Addr string

	// TLS enables TLS when non-nil.
	TLS *tls.Config

	// Timeout applies to dialing and to each round trip.
	Timeout time.Duration
}

// Client is a single-connection RESP client. It is safe for concurrent use;
// requests are serialized.
type Client struct {
	opts Options

	mu   sync.Mutex
	conn net.Conn
	buf  []byte
}

// NewClient creates a client. The connection is opened lazily.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{opts: opts}
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.opts.Addr
}

// Do sends args as a command and returns the decoded reply.
// Error replies are returned as values, not as Go errors.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Value, error) {
	if len(args) == 0 {
		return resp.Value{}, errors.New("empty command")
	}
	return c.DoRaw(ctx, EncodeCommand(args...))
}

// DoRaw writes frame unchanged and returns the decoded reply.
func (c *Client) DoRaw(ctx context.Context, frame []byte) (resp.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		return resp.Value{}, err
	}

	deadline := time.Now().Add(c.opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.closeLocked()
		return resp.Value{}, fmt.Errorf("set deadline: %w", err)
	}

	if _, err := c.conn.Write(frame); err != nil {
		c.closeLocked()
		return resp.Value{}, fmt.Errorf("write: %w", err)
	}

	v, err := c.readReplyLocked()
	if err != nil {
		c.closeLocked()
		return resp.Value{}, err
	}
	return v, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	dialer := &net.Dialer{Timeout: c.opts.Timeout}
	var (
		conn net.Conn
		err  error
	)
	if c.opts.TLS != nil {
		td := &tls.Dialer{NetDialer: dialer, Config: c.opts.TLS}
		conn, err = td.DialContext(ctx, "tcp", c.opts.Addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", c.opts.Addr)
	}
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.opts.Addr, err)
	}

	c.conn = conn
	return nil
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// readReplyLocked reads until buf holds one complete frame.
func (c *Client) readReplyLocked() (resp.Value, error) {
	c.buf = c.buf[:0]
	chunk := make([]byte, 4096)

	for {
		n, err := c.conn.Read(chunk)
		if n > 0 {
			c.buf = append(c.buf, chunk[:n]...)
			res := resp.Decode(c.buf, 0)
			if res.Success() {
				return res.Value, nil
			}
			if !errors.Is(res.Err, resp.ErrIncomplete) {
				return resp.Value{}, fmt.Errorf("decode reply: %w", res.Err)
			}
			if len(c.buf) > maxReplySize {
				return resp.Value{}, ErrReplyTooLarge
			}
		}
		if err != nil {
			return resp.Value{}, fmt.Errorf("read: %w", err)
		}
	}
}

// EncodeCommand encodes args as an array of bulk strings.
func EncodeCommand(args ...string) []byte {
	vs := make([]resp.Value, len(args))
	for i, a := range args {
		vs[i] = resp.BulkString(a)
	}
	return resp.MustEncode(resp.Array(vs...))
}
