package resp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EncodeResult is the outcome of encoding a value.
type EncodeResult struct {
	Bytes []byte
	Err   error
}

// Success reports whether the value was encoded.
func (r EncodeResult) Success() bool {
	return r.Err == nil
}

// Message returns the failure message, or "" on success.
func (r EncodeResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// EncodeOne serializes a single non-array item as wire type t, reading the
// field of v that t uses (see Value).
//
// Arrays are rejected with ErrArrayEncoding; use EncodeArray or Encode.
// Map, Set and Push fail with ErrNotImplemented.
func EncodeOne(v Value, t Type) (res EncodeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = EncodeResult{Err: fmt.Errorf("%s: %w: encoder fault: %v", t, ErrInvalidValue, r)}
		}
	}()

	b, err := appendOne(nil, v, t)
	if err != nil {
		return EncodeResult{Err: err}
	}
	return EncodeResult{Bytes: b}
}

// EncodeArray serializes vs as an array, encoding every element with Encode.
// A nil slice is encoded as a null array.
func EncodeArray(vs []Value) EncodeResult {
	if vs == nil {
		return Encode(NullArray())
	}
	return Encode(Array(vs...))
}

// Encode serializes v using its own Type, recursing into arrays.
func Encode(v Value) (res EncodeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = EncodeResult{Err: fmt.Errorf("%s: %w: encoder fault: %v", v.Type, ErrInvalidValue, r)}
		}
	}()

	b, err := appendValue(nil, v)
	if err != nil {
		return EncodeResult{Err: err}
	}
	return EncodeResult{Bytes: b}
}

// MustEncode is like Encode but panics on failure.
// It is meant for replies built from constants.
func MustEncode(v Value) []byte {
	res := Encode(v)
	if res.Err != nil {
		panic(res.Err)
	}
	return res.Bytes
}

func appendValue(dst []byte, v Value) ([]byte, error) {
	if v.Type != TypeArray {
		return appendOne(dst, v, v.Type)
	}
	if v.Null {
		return append(dst, "*-1\r\n"...), nil
	}
	dst = append(dst, byte(TypeArray))
	dst = strconv.AppendInt(dst, int64(len(v.Array)), 10)
	dst = append(dst, crlf...)
	for _, elem := range v.Array {
		var err error
		if dst, err = appendValue(dst, elem); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func appendOne(dst []byte, v Value, t Type) ([]byte, error) {
	switch t {
	case TypeSimpleString, TypeSimpleError:
		if strings.ContainsAny(v.Str, "\r\n") {
			return nil, fmt.Errorf("%s: %w: contains CR or LF", t, ErrInvalidValue)
		}
		dst = append(dst, byte(t))
		dst = append(dst, v.Str...)
		return append(dst, crlf...), nil

	case TypeInteger:
		dst = append(dst, byte(t))
		dst = strconv.AppendInt(dst, v.Int, 10)
		return append(dst, crlf...), nil

	case TypeBulkString:
		if v.Null {
			return append(dst, "$-1\r\n"...), nil
		}
		return appendBulk(dst, t, v.Str), nil

	case TypeBulkError:
		return appendBulk(dst, t, v.Str), nil

	case TypeVerbatimString:
		if len(v.Format) != 3 {
			return nil, fmt.Errorf("%s: %w: format %q must be 3 characters", t, ErrInvalidValue, v.Format)
		}
		return appendBulk(dst, t, v.Format+":"+v.Str), nil

	case TypeNull:
		return append(dst, "_\r\n"...), nil

	case TypeBoolean:
		if v.Bool {
			return append(dst, "#t\r\n"...), nil
		}
		return append(dst, "#f\r\n"...), nil

	case TypeDouble:
		dst = append(dst, byte(t))
		switch {
		case math.IsNaN(v.Float):
			dst = append(dst, "nan"...)
		case math.IsInf(v.Float, 1):
			dst = append(dst, "inf"...)
		case math.IsInf(v.Float, -1):
			dst = append(dst, "-inf"...)
		default:
			dst = strconv.AppendFloat(dst, v.Float, 'g', -1, 64)
		}
		return append(dst, crlf...), nil

	case TypeBigNumber:
		if !isBigNumber(v.Str) {
			return nil, fmt.Errorf("%s: %w: %q is not a signed decimal", t, ErrInvalidValue, v.Str)
		}
		dst = append(dst, byte(t))
		dst = append(dst, v.Str...)
		return append(dst, crlf...), nil

	case TypeArray:
		return nil, fmt.Errorf("%s: %w", t, ErrArrayEncoding)

	case TypeMap, TypeSet, TypePush:
		return nil, fmt.Errorf("%s %w", t, ErrNotImplemented)
	}

	return nil, fmt.Errorf("%w %q", ErrInvalidType, byte(t))
}

func appendBulk(dst []byte, t Type, payload string) []byte {
	dst = append(dst, byte(t))
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, crlf...)
	dst = append(dst, payload...)
	return append(dst, crlf...)
}
