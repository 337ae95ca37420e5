// Package redisserver serves the respkv key-value store over RESP.
//
// It has three parts:
//
//   - command.go: the dispatcher that turns one decoded request array into
//     one encoded reply (PING, ECHO, GET, SET)
//   - conn.go: the per-connection read, dispatch, write loop
//   - server.go: the TCP (and optional TLS) listeners and lifecycle
//
// Each socket read is treated as exactly one request buffer. Bytes after the
// first complete frame are discarded, and a buffer that does not hold a
// complete frame is answered with a protocol error. Pipelining is not
// supported.
//
// Supported commands:
//   - PING [message]
//   - ECHO message [message ...]
//   - GET key
//   - SET key value [NX | XX] [EX seconds | PX milliseconds] [GET]
package redisserver
