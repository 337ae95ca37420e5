// Package resp implements the RESP wire protocol (version 2 and 3 dialects).
//
// The package is split into three parts:
//
//   - value.go: the closed Value model shared by decoder and encoder
//   - decode.go: a cursor-based recursive decoder (Decode)
//   - encode.go: single-item encoding (EncodeOne) and the composite
//     array-aware encoder (Encode, EncodeArray)
//
// Decoding never splits the input on line terminators. Bulk payloads are
// consumed by their declared length, so they may contain CRLF.
//
// Map, Set and Push frames are recognized but not supported; both the
// decoder and the encoder fail on them with ErrNotImplemented.
package resp
