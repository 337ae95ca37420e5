package resp

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Protocol limits.
const (
	// MaxArrayLen limits the declared element count of a single array.
	MaxArrayLen = 1024 * 1024

	// MaxBulkLen limits the declared length of a bulk payload (512MB).
	MaxBulkLen = 512 * 1024 * 1024
)

var crlf = []byte("\r\n")

// DecodeResult is the outcome of decoding one frame.
//
// Next is the offset immediately after the decoded frame. It is only
// meaningful when Err is nil.
type DecodeResult struct {
	Value Value
	Next  int
	Err   error
}

// Success reports whether the frame was decoded.
func (r DecodeResult) Success() bool {
	return r.Err == nil
}

// Message returns the failure message, or "" on success.
func (r DecodeResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Decode parses exactly one frame of buf starting at cursor.
//
// Arrays are decoded recursively; each child starts at the Next offset of
// its predecessor. The first failing child aborts the whole array and its
// error is returned unchanged. Decode never panics: internal faults are
// converted into a failed result.
func Decode(buf []byte, cursor int) (res DecodeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = DecodeResult{Next: cursor, Err: fmt.Errorf("%w: decoder fault: %v", ErrProtocol, r)}
		}
	}()

	if cursor < 0 || cursor > len(buf) {
		return DecodeResult{Next: cursor, Err: fmt.Errorf("%w: cursor %d outside input", ErrProtocol, cursor)}
	}

	d := decoder{buf: buf}
	v, next, err := d.frame(cursor)
	if err != nil {
		return DecodeResult{Next: cursor, Err: err}
	}
	return DecodeResult{Value: v, Next: next}
}

// DecodeString is a convenience wrapper around Decode for string input.
func DecodeString(s string) DecodeResult {
	return Decode([]byte(s), 0)
}

type decoder struct {
	buf []byte
}

func (d *decoder) frame(pos int) (Value, int, error) {
	if pos >= len(d.buf) {
		return Value{}, pos, fmt.Errorf("%w: empty frame", ErrIncomplete)
	}

	t := Type(d.buf[pos])
	body := pos + 1

	switch t {
	case TypeSimpleString, TypeSimpleError:
		line, next, err := d.line(body)
		if err != nil {
			return Value{}, pos, err
		}
		return Value{Type: t, Str: string(line)}, next, nil

	case TypeInteger:
		return d.integer(body)

	case TypeBulkString, TypeBulkError, TypeVerbatimString:
		return d.bulk(t, body)

	case TypeArray:
		return d.array(body)

	case TypeNull:
		if err := d.expectCRLF(body); err != nil {
			return Value{}, pos, fmt.Errorf("%w: malformed null", err)
		}
		return Null(), body + 2, nil

	case TypeBoolean:
		return d.boolean(body)

	case TypeDouble:
		return d.double(body)

	case TypeBigNumber:
		return d.bigNumber(body)

	case TypeMap, TypeSet, TypePush:
		return Value{}, pos, fmt.Errorf("%s %w", t, ErrNotImplemented)
	}

	return Value{}, pos, fmt.Errorf("%w %q", ErrInvalidType, d.buf[pos])
}

// line returns the bytes between pos and the next CRLF and the offset
// after that CRLF.
func (d *decoder) line(pos int) ([]byte, int, error) {
	idx := bytes.Index(d.buf[pos:], crlf)
	if idx < 0 {
		return nil, pos, fmt.Errorf("%w: %w", ErrNoCRLF, ErrIncomplete)
	}
	return d.buf[pos : pos+idx], pos + idx + 2, nil
}

// expectCRLF requires the two bytes at pos to be exactly CRLF.
func (d *decoder) expectCRLF(pos int) error {
	if pos+2 > len(d.buf) {
		return fmt.Errorf("%w: %w", ErrNoCRLF, ErrIncomplete)
	}
	if d.buf[pos] != '\r' || d.buf[pos+1] != '\n' {
		return ErrNoCRLF
	}
	return nil
}

func (d *decoder) header(pos int) (int64, int, error) {
	line, next, err := d.line(pos)
	if err != nil {
		return 0, pos, err
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return 0, pos, fmt.Errorf("%w: invalid length %q", ErrProtocol, line)
	}
	return n, next, nil
}

func (d *decoder) integer(pos int) (Value, int, error) {
	line, next, err := d.line(pos)
	if err != nil {
		return Value{}, pos, err
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return Value{}, pos, fmt.Errorf("%w: invalid integer %q", ErrProtocol, line)
	}
	return Integer(n), next, nil
}

func (d *decoder) bulk(t Type, pos int) (Value, int, error) {
	n, next, err := d.header(pos)
	if err != nil {
		return Value{}, pos, err
	}
	if n == -1 && t == TypeBulkString {
		return NullBulkString(), next, nil
	}
	if n < 0 {
		return Value{}, pos, fmt.Errorf("%w: negative %s length %d", ErrProtocol, t, n)
	}
	if n > MaxBulkLen {
		return Value{}, pos, fmt.Errorf("%w: %s length %d exceeds %d", ErrLimitExceeded, t, n, MaxBulkLen)
	}

	end := next + int(n)
	if end > len(d.buf) {
		return Value{}, pos, fmt.Errorf("%w: %w", ErrNoCRLF, ErrIncomplete)
	}
	if err := d.expectCRLF(end); err != nil {
		return Value{}, pos, err
	}
	payload := string(d.buf[next:end])

	if t == TypeVerbatimString {
		if len(payload) < 4 || payload[3] != ':' {
			return Value{}, pos, fmt.Errorf("%w: verbatim string without format", ErrProtocol)
		}
		return VerbatimString(payload[:3], payload[4:]), end + 2, nil
	}
	return Value{Type: t, Str: payload}, end + 2, nil
}

func (d *decoder) array(pos int) (Value, int, error) {
	n, next, err := d.header(pos)
	if err != nil {
		return Value{}, pos, err
	}
	if n == -1 {
		return NullArray(), next, nil
	}
	if n < 0 {
		return Value{}, pos, fmt.Errorf("%w: negative array length %d", ErrProtocol, n)
	}
	if n > MaxArrayLen {
		return Value{}, pos, fmt.Errorf("%w: array length %d exceeds %d", ErrLimitExceeded, n, MaxArrayLen)
	}
	// Every frame needs at least three bytes.
	if n > int64(len(d.buf)-next)/3 {
		return Value{}, pos, fmt.Errorf("%w: array declares %d elements", ErrIncomplete, n)
	}

	elems := make([]Value, n)
	for i := range elems {
		v, after, err := d.frame(next)
		if err != nil {
			return Value{}, pos, err
		}
		elems[i] = v
		next = after
	}
	return Array(elems...), next, nil
}

func (d *decoder) boolean(pos int) (Value, int, error) {
	if pos >= len(d.buf) {
		return Value{}, pos, fmt.Errorf("%w: %w", ErrNoCRLF, ErrIncomplete)
	}
	var b bool
	switch d.buf[pos] {
	case 't':
		b = true
	case 'f':
		b = false
	default:
		return Value{}, pos, fmt.Errorf("%w: invalid boolean", ErrProtocol)
	}
	if err := d.expectCRLF(pos + 1); err != nil {
		return Value{}, pos, fmt.Errorf("%w: invalid boolean", ErrProtocol)
	}
	return Boolean(b), pos + 3, nil
}

func (d *decoder) double(pos int) (Value, int, error) {
	line, next, err := d.line(pos)
	if err != nil {
		return Value{}, pos, err
	}
	switch string(line) {
	case "nan":
		return Double(math.NaN()), next, nil
	case "inf":
		return Double(math.Inf(1)), next, nil
	case "-inf":
		return Double(math.Inf(-1)), next, nil
	}
	if !isDecimalFloat(line) {
		return Value{}, pos, fmt.Errorf("%w: invalid double %q", ErrProtocol, line)
	}
	f, err := strconv.ParseFloat(string(line), 64)
	if err != nil {
		return Value{}, pos, fmt.Errorf("%w: invalid double %q", ErrProtocol, line)
	}
	return Double(f), next, nil
}

func (d *decoder) bigNumber(pos int) (Value, int, error) {
	line, next, err := d.line(pos)
	if err != nil {
		return Value{}, pos, err
	}
	if !isBigNumber(string(line)) {
		return Value{}, pos, fmt.Errorf("%w: invalid big number %q", ErrProtocol, line)
	}
	return BigNumber(string(line)), next, nil
}

// isDecimalFloat rejects the spellings strconv.ParseFloat accepts beyond
// plain decimal and exponent notation (hex floats, "Inf", "NaN", "_").
func isDecimalFloat(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	digits := false
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '+' || c == '-' || c == '.' || c == 'e' || c == 'E':
		default:
			return false
		}
	}
	return digits
}

func isBigNumber(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
