// Package connection provides the RESP client used by respkv-cli.
//
// A Client holds one TCP (optionally TLS) connection, sends each command as
// an array of bulk strings and reads until one complete reply frame has
// arrived.
package connection
