package resp

import "errors"

// Sentinel errors wrapped by DecodeResult.Err and EncodeResult.Err.
//
// Messages are written to clients verbatim inside simple errors, so they
// must never contain CR or LF.
var (
	ErrProtocol       = errors.New("protocol error")
	ErrInvalidType    = errors.New("invalid type")
	ErrNoCRLF         = errors.New("no CRLF found")
	ErrIncomplete     = errors.New("unexpected end of input")
	ErrNotImplemented = errors.New("not yet implemented")
	ErrLimitExceeded  = errors.New("limit exceeded")
	ErrInvalidValue   = errors.New("invalid value")
	ErrArrayEncoding  = errors.New("arrays must be encoded with EncodeArray")
)
