package session

import "time"

// Option applies a configuration option to the memory store.
type Option func(*memoryStore)

// WithMaxSize bounds the number of sessions kept. maxSize <= 0 means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(s *memoryStore) {
		s.maxSize = maxSize
	}
}

// WithTTL sets how long an idle session is kept. ttl <= 0 disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *memoryStore) {
		s.ttl = ttl
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *memoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOnEvict is called with the cause every time an entry is evicted.
func WithOnEvict(fn func(cause string)) Option {
	return func(s *memoryStore) {
		if fn != nil {
			s.onEvict = fn
		}
	}
}

// WithOnSize is called with the number of sessions after every change.
func WithOnSize(fn func(n int)) Option {
	return func(s *memoryStore) {
		if fn != nil {
			s.onSize = fn
		}
	}
}
