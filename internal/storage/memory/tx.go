package memory

import "time"

// Tx gives a callback of Store.Update direct access to the store.
// It is only valid inside that callback.
type Tx struct {
	s *Store
}

// Now returns the store clock's current time.
func (tx *Tx) Now() time.Time {
	return tx.s.now()
}

// Get returns the value of key after lazy expiry.
func (tx *Tx) Get(key string) (string, bool) {
	tx.s.evictIfExpired(key)
	v, ok := tx.s.values[key]
	return v, ok
}

// Exists reports whether key holds a live value.
func (tx *Tx) Exists(key string) bool {
	_, ok := tx.Get(key)
	return ok
}

// Set stores value under key. A zero expireAt removes any previous expiry,
// so a plain write always makes the key persistent.
func (tx *Tx) Set(key, value string, expireAt time.Time) {
	tx.s.values[key] = value
	if expireAt.IsZero() {
		delete(tx.s.expiry, key)
		return
	}
	tx.s.expiry[key] = expireAt
}

// Delete removes key and reports whether it held a live value.
func (tx *Tx) Delete(key string) bool {
	if !tx.Exists(key) {
		return false
	}
	delete(tx.s.values, key)
	delete(tx.s.expiry, key)
	return true
}

// TTL returns the remaining lifetime of key or NoExpiry.
func (tx *Tx) TTL(key string) (time.Duration, bool) {
	if !tx.Exists(key) {
		return 0, false
	}
	at, ok := tx.s.expiry[key]
	if !ok {
		return NoExpiry, true
	}
	return at.Sub(tx.s.now()), true
}
