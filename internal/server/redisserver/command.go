package redisserver

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// CommandHandler executes decoded requests against the store.
type CommandHandler struct {
	store   *memory.Store
	metrics *metric.Registry
	logger  *slog.Logger
}

// NewCommandHandler creates a new CommandHandler. metrics may be nil.
func NewCommandHandler(store *memory.Store, metrics *metric.Registry, logger *slog.Logger) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandHandler{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle executes one request and returns the encoded reply.
// It never fails: every problem is reported as a RESP error reply.
func (h *CommandHandler) Handle(ctx context.Context, req resp.Value) []byte {
	args, errReply := requestArgs(req)
	if errReply != nil {
		return encodeReply(*errReply)
	}

	start := time.Now()
	cmdName := strings.ToUpper(args[0])

	var reply resp.Value
	switch cmdName {
	case "PING":
		reply = h.handlePing(args)
	case "ECHO":
		reply = h.handleEcho(args)
	case "GET":
		reply = h.handleGet(args)
	case "SET":
		reply = h.handleSet(args)
	default:
		reply = errorf("ERR unknown command '%s'", args[0])
		cmdName = "unknown"
	}

	h.metrics.ObserveCommand(strings.ToLower(cmdName), !reply.IsError(), time.Since(start))
	if reply.IsError() {
		logger.L(ctx).Debug("command failed", "command", cmdName, "error", reply.Str)
	}

	return encodeReply(reply)
}

// requestArgs unwraps a request array into its textual arguments.
func requestArgs(req resp.Value) ([]string, *resp.Value) {
	if req.Type != resp.TypeArray || req.IsNull() {
		e := resp.SimpleError("ERR invalid request: expected array of bulk strings, got " + req.Type.String())
		return nil, &e
	}
	if len(req.Array) == 0 {
		e := resp.SimpleError("ERR empty command")
		return nil, &e
	}

	args := make([]string, len(req.Array))
	for i, v := range req.Array {
		s, ok := v.Text()
		if !ok {
			if v.Type != resp.TypeInteger {
				e := resp.SimpleError("ERR invalid argument type " + v.Type.String())
				return nil, &e
			}
			s = strconv.FormatInt(v.Int, 10)
		}
		args[i] = s
	}
	return args, nil
}

func (h *CommandHandler) handlePing(args []string) resp.Value {
	switch len(args) {
	case 1:
		return resp.SimpleString("PONG")
	case 2:
		return resp.BulkString(args[1])
	}
	return wrongArity("PING")
}

func (h *CommandHandler) handleEcho(args []string) resp.Value {
	if len(args) < 2 {
		return wrongArity("ECHO")
	}
	return resp.BulkString(strings.Join(args[1:], " "))
}

func (h *CommandHandler) handleGet(args []string) resp.Value {
	if len(args) != 2 {
		return wrongArity("GET")
	}
	v, ok := h.store.Get(args[1])
	if !ok {
		return resp.NullBulkString()
	}
	return resp.BulkString(v)
}

// setOptions is the parsed tail of a SET command.
type setOptions struct {
	nx, xx, get bool
	ttl         time.Duration
}

func parseSetOptions(tokens []string) (setOptions, *resp.Value) {
	var opts setOptions
	for i := 0; i < len(tokens); i++ {
		switch opt := strings.ToUpper(tokens[i]); opt {
		case "NX":
			opts.nx = true
		case "XX":
			opts.xx = true
		case "GET":
			opts.get = true
		case "EX", "PX":
			if i+1 >= len(tokens) {
				e := errorf("ERR %s without value", opt)
				return opts, &e
			}
			i++
			n, err := strconv.ParseInt(tokens[i], 10, 64)
			if err != nil {
				e := errorf("ERR %s with non-integer value", opt)
				return opts, &e
			}
			if n <= 0 {
				e := errorf("ERR %s with non-positive value", opt)
				return opts, &e
			}
			unit := time.Millisecond
			if opt == "EX" {
				unit = time.Second
			}
			if n > math.MaxInt64/int64(unit) {
				e := errorf("ERR %s value out of range", opt)
				return opts, &e
			}
			// The last EX or PX wins.
			opts.ttl = time.Duration(n) * unit
		default:
			e := resp.SimpleError("ERR syntax error")
			return opts, &e
		}
	}
	return opts, nil
}

func (h *CommandHandler) handleSet(args []string) resp.Value {
	if len(args) < 3 {
		return wrongArity("SET")
	}
	key, value := args[1], args[2]

	opts, errReply := parseSetOptions(args[3:])
	if errReply != nil {
		return *errReply
	}
	if opts.nx && opts.xx {
		return resp.SimpleError("ERR both NX and XX set")
	}

	var reply resp.Value
	_ = h.store.Update(func(tx *memory.Tx) error {
		old, exists := tx.Get(key)

		if opts.nx && exists {
			reply = resp.SimpleError("ERR key already exists")
			return nil
		}
		if opts.xx && !exists {
			reply = resp.SimpleError("ERR key does not exist")
			return nil
		}

		var expireAt time.Time
		if opts.ttl > 0 {
			expireAt = tx.Now().Add(opts.ttl)
		}
		tx.Set(key, value, expireAt)

		switch {
		case !opts.get:
			reply = resp.SimpleString("OK")
		case exists:
			reply = resp.BulkString(old)
		default:
			reply = resp.NullBulkString()
		}
		return nil
	})

	h.logger.Debug("set", "key", key, "value", value, "ttl", opts.ttl)
	return reply
}

func wrongArity(cmd string) resp.Value {
	return errorf("ERR wrong number of arguments for '%s' command", cmd)
}

// errorf builds a simple error reply. CR and LF are replaced so that
// client-supplied text can never break the frame.
func errorf(format string, a ...any) resp.Value {
	return resp.SimpleError(sanitizeLine(fmt.Sprintf(format, a...)))
}

var lineReplacer = strings.NewReplacer("\r", " ", "\n", " ")

func sanitizeLine(s string) string {
	return lineReplacer.Replace(s)
}

// encodeReply encodes v, falling back to an error reply when v cannot be
// encoded.
func encodeReply(v resp.Value) []byte {
	res := resp.Encode(v)
	if res.Success() {
		return res.Bytes
	}
	return resp.MustEncode(resp.SimpleError("ERR " + sanitizeLine(res.Message())))
}
