package resp

import (
	"math"
	"strconv"
)

// Type is the one-byte sigil that starts every RESP frame.
type Type byte

// RESP2 types.
const (
	TypeSimpleString Type = '+'
	TypeSimpleError  Type = '-'
	TypeInteger      Type = ':'
	TypeBulkString   Type = '$'
	TypeArray        Type = '*'
)

// RESP3 types.
const (
	TypeNull           Type = '_'
	TypeBoolean        Type = '#'
	TypeDouble         Type = ','
	TypeBigNumber      Type = '('
	TypeBulkError      Type = '!'
	TypeVerbatimString Type = '='
	TypeMap            Type = '%'
	TypeSet            Type = '~'
	TypePush           Type = '>'
)

var typeNames = map[Type]string{
	TypeSimpleString:   "SimpleString",
	TypeSimpleError:    "SimpleError",
	TypeInteger:        "Integer",
	TypeBulkString:     "BulkString",
	TypeArray:          "Array",
	TypeNull:           "Null",
	TypeBoolean:        "Boolean",
	TypeDouble:         "Double",
	TypeBigNumber:      "BigNumber",
	TypeBulkError:      "BulkError",
	TypeVerbatimString: "VerbatimString",
	TypeMap:            "Map",
	TypeSet:            "Set",
	TypePush:           "Push",
}

// String returns the type name, e.g. "BulkString".
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown(" + strconv.QuoteRune(rune(t)) + ")"
}

// Known reports whether t is one of the documented RESP types.
func (t Type) Known() bool {
	_, ok := typeNames[t]
	return ok
}

// Supported reports whether values of type t can be decoded and encoded.
func (t Type) Supported() bool {
	switch t {
	case TypeMap, TypeSet, TypePush:
		return false
	}
	return t.Known()
}

// Value is a decoded RESP frame.
//
// Only the fields relevant to Type are meaningful:
//
//	SimpleString, SimpleError, BulkString, BulkError  -> Str
//	VerbatimString                                    -> Format, Str
//	BigNumber                                         -> Str (sign and digits)
//	Integer                                           -> Int
//	Double                                            -> Float
//	Boolean                                           -> Bool
//	Array                                             -> Array
//
// Null marks the absent form of a BulkString or Array. A TypeNull value is
// always null.
type Value struct {
	Type   Type
	Str    string
	Format string
	Int    int64
	Float  float64
	Bool   bool
	Array  []Value
	Null   bool
}

// SimpleString returns a simple string value.
func SimpleString(s string) Value { return Value{Type: TypeSimpleString, Str: s} }

// SimpleError returns a simple error value.
func SimpleError(msg string) Value { return Value{Type: TypeSimpleError, Str: msg} }

// Integer returns an integer value.
func Integer(n int64) Value { return Value{Type: TypeInteger, Int: n} }

// BulkString returns a bulk string value.
func BulkString(s string) Value { return Value{Type: TypeBulkString, Str: s} }

// NullBulkString returns the null bulk string ($-1).
func NullBulkString() Value { return Value{Type: TypeBulkString, Null: true} }

// Array returns an array value holding vs.
func Array(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{Type: TypeArray, Array: vs}
}

// NullArray returns the null array (*-1).
func NullArray() Value { return Value{Type: TypeArray, Null: true} }

// Null returns the RESP3 null value.
func Null() Value { return Value{Type: TypeNull, Null: true} }

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{Type: TypeBoolean, Bool: b} }

// Double returns a double value. NaN and infinities are allowed.
func Double(f float64) Value { return Value{Type: TypeDouble, Float: f} }

// BigNumber returns a big number value. digits carries an optional sign.
func BigNumber(digits string) Value { return Value{Type: TypeBigNumber, Str: digits} }

// BulkError returns a bulk error value.
func BulkError(msg string) Value { return Value{Type: TypeBulkError, Str: msg} }

// VerbatimString returns a verbatim string with a three character format tag.
func VerbatimString(format, text string) Value {
	return Value{Type: TypeVerbatimString, Format: format, Str: text}
}

// IsNull reports whether v is a null of any kind.
func (v Value) IsNull() bool {
	return v.Type == TypeNull || v.Null
}

// IsError reports whether v is a simple or bulk error.
func (v Value) IsError() bool {
	return v.Type == TypeSimpleError || v.Type == TypeBulkError
}

// Text returns the textual payload of string-like values.
// ok is false for nulls and non-textual types.
func (v Value) Text() (s string, ok bool) {
	if v.IsNull() {
		return "", false
	}
	switch v.Type {
	case TypeSimpleString, TypeBulkString, TypeVerbatimString, TypeBigNumber:
		return v.Str, true
	}
	return "", false
}

// Equal reports whether v and other describe the same frame.
// Two NaN doubles are equal.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type || v.Null != other.Null {
		return false
	}
	if v.Null {
		return true
	}
	switch v.Type {
	case TypeSimpleString, TypeSimpleError, TypeBulkString, TypeBulkError, TypeBigNumber:
		return v.Str == other.Str
	case TypeVerbatimString:
		return v.Format == other.Format && v.Str == other.Str
	case TypeInteger:
		return v.Int == other.Int
	case TypeDouble:
		if math.IsNaN(v.Float) {
			return math.IsNaN(other.Float)
		}
		return v.Float == other.Float
	case TypeBoolean:
		return v.Bool == other.Bool
	case TypeNull:
		return true
	case TypeArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Native converts v into plain Go values: nil, string, int64, float64,
// bool or []any. Errors become strings. Non-finite doubles become the
// strings "nan", "inf" and "-inf" so that the result is JSON friendly.
func (v Value) Native() any {
	if v.IsNull() {
		return nil
	}
	switch v.Type {
	case TypeInteger:
		return v.Int
	case TypeDouble:
		switch {
		case math.IsNaN(v.Float):
			return "nan"
		case math.IsInf(v.Float, 1):
			return "inf"
		case math.IsInf(v.Float, -1):
			return "-inf"
		}
		return v.Float
	case TypeBoolean:
		return v.Bool
	case TypeArray:
		out := make([]any, len(v.Array))
		for i, elem := range v.Array {
			out[i] = elem.Native()
		}
		return out
	case TypeVerbatimString:
		return v.Format + ":" + v.Str
	}
	return v.Str
}
