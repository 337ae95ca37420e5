// Package memory provides the in-memory key-value store behind respkv.
//
// A Store maps keys to opaque string values with an optional absolute
// expiry. Expiry is lazy: an expired key is removed the first time any
// operation touches it, and there is no background sweeper.
//
// Thread Safety:
//
// Every operation runs under one store-wide mutex. Update hands a Tx to a
// callback while holding that mutex, so a multi-step command (check NX,
// capture the old value, write) is applied atomically with respect to all
// other connections. Reads take the same exclusive lock because they may
// evict.
package memory
