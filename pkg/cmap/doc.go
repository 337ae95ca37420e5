// Package cmap provides a sharded, string-keyed concurrent map.
//
// Keys are spread over a power-of-two number of shards using murmur3, and
// every shard has its own RWMutex. respkv uses it for bookkeeping that is
// touched by many connections at once (the live connection registry and
// the per-client rate limiters), never for the key-value data itself,
// which lives behind the store's single lock.
//
// Usage:
//
//	m := cmap.New[*Conn]()
//	m.Set(id, conn)
//	c, ok := m.Get(id)
package cmap
