package memory

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// NoExpiry is returned by TTL for keys that never expire.
const NoExpiry time.Duration = -1

// Store is an in-memory key-value store with lazy TTL expiry.
type Store struct {
	mu     sync.Mutex
	values map[string]string
	expiry map[string]time.Time

	now     func() time.Time
	expired atomic.Uint64
	logger  *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used for expiry debug events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		values: make(map[string]string),
		expiry: make(map[string]time.Time),
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Update runs fn with exclusive access to the store.
// Whatever fn returns is returned unchanged.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s})
}

// Get returns the value of key, evicting it first if it has expired.
func (s *Store) Get(key string) (value string, found bool) {
	_ = s.Update(func(tx *Tx) error {
		value, found = tx.Get(key)
		return nil
	})
	return value, found
}

// Set stores value under key, replacing any previous value.
// A zero expireAt clears any expiry the key had.
func (s *Store) Set(key, value string, expireAt time.Time) {
	_ = s.Update(func(tx *Tx) error {
		tx.Set(key, value, expireAt)
		return nil
	})
}

// Exists reports whether key holds a live value.
func (s *Store) Exists(key string) (found bool) {
	_ = s.Update(func(tx *Tx) error {
		found = tx.Exists(key)
		return nil
	})
	return found
}

// Delete removes key and reports whether it held a live value.
func (s *Store) Delete(key string) (deleted bool) {
	_ = s.Update(func(tx *Tx) error {
		deleted = tx.Delete(key)
		return nil
	})
	return deleted
}

// TTL returns the remaining lifetime of key, or NoExpiry if it has none.
// found is false when the key is absent or expired.
func (s *Store) TTL(key string) (ttl time.Duration, found bool) {
	_ = s.Update(func(tx *Tx) error {
		ttl, found = tx.TTL(key)
		return nil
	})
	return ttl, found
}

// Len returns the number of keys that have not expired.
// Expired keys are counted out but not evicted.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for key := range s.values {
		if !s.isExpired(key, now) {
			n++
		}
	}
	return n
}

// Keys returns the live keys in lexical order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		if !s.isExpired(key, now) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ExpiredCount returns how many keys have been lazily evicted so far.
func (s *Store) ExpiredCount() uint64 {
	return s.expired.Load()
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) isExpired(key string, now time.Time) bool {
	at, ok := s.expiry[key]
	return ok && at.Before(now)
}

// evictIfExpired removes key when its expiry is strictly in the past.
// Caller must hold s.mu.
func (s *Store) evictIfExpired(key string) {
	if !s.isExpired(key, s.now()) {
		return
	}
	delete(s.values, key)
	delete(s.expiry, key)
	s.expired.Add(1)
	s.logger.Debug("key expired", "key", key)
}
