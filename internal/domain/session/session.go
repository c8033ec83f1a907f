// Package session keeps each browser session's filter selection in memory.
package session

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pulso/internal/domain/filter"
)

// Eviction causes reported to the OnEvict hook.
const (
	CauseExpired  = "expired"
	CauseCapacity = "capacity"
)

// Store maps a session ID to the selection made in that session.
type Store interface {
	// NewID returns a fresh random session ID.
	NewID() string
	// Get returns the stored selection. ok is false for unknown or expired IDs.
	Get(ctx context.Context, id string) (sel filter.Selection, ok bool)
	// Put stores sel for id, replacing any earlier value.
	Put(ctx context.Context, id string, sel filter.Selection)
	// Delete forgets id.
	Delete(ctx context.Context, id string)
	Len() int
}

type entry struct {
	id      string
	sel     filter.Selection
	touched time.Time
}

// memoryStore is a bounded store. Entries expire after ttl without access and,
// once maxSize is reached, the least recently used entry is evicted.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	onEvict func(cause string)
	onSize  func(n int)
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(opts ...Option) Store {
	s := &memoryStore{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: 10000,
		ttl:     2 * time.Hour,
		now:     time.Now,
		onEvict: func(string) {},
		onSize:  func(int) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *memoryStore) NewID() string {
	return uuid.NewString()
}

func (s *memoryStore) Get(_ context.Context, id string) (filter.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[id]
	if !ok {
		return filter.Selection{}, false
	}
	e := el.Value.(*entry)
	now := s.now()
	if s.expired(e, now) {
		s.remove(el, CauseExpired)
		return filter.Selection{}, false
	}
	e.touched = now
	s.order.MoveToFront(el)
	return copySelection(e.sel), true
}

func (s *memoryStore) Put(_ context.Context, id string, sel filter.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if el, ok := s.entries[id]; ok {
		e := el.Value.(*entry)
		e.sel = copySelection(sel)
		e.touched = now
		s.order.MoveToFront(el)
		return
	}

	s.sweep(now)
	if s.maxSize > 0 {
		for len(s.entries) >= s.maxSize {
			s.remove(s.order.Back(), CauseCapacity)
		}
	}
	s.entries[id] = s.order.PushFront(&entry{id: id, sel: copySelection(sel), touched: now})
	s.onSize(len(s.entries))
}

func (s *memoryStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[id]; ok {
		s.order.Remove(el)
		delete(s.entries, id)
		s.onSize(len(s.entries))
	}
}

func (s *memoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *memoryStore) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touched) > s.ttl
}

// sweep drops expired entries from the back of the list.
// Must be called with s.mu held.
func (s *memoryStore) sweep(now time.Time) {
	for el := s.order.Back(); el != nil; el = s.order.Back() {
		if !s.expired(el.Value.(*entry), now) {
			return
		}
		s.remove(el, CauseExpired)
	}
}

// Must be called with s.mu held.
func (s *memoryStore) remove(el *list.Element, cause string) {
	if el == nil {
		return
	}
	e := s.order.Remove(el).(*entry)
	delete(s.entries, e.id)
	s.onEvict(cause)
	s.onSize(len(s.entries))
}

func copySelection(sel filter.Selection) filter.Selection {
	return filter.Selection{
		Activities: append([]string{}, sel.Activities...),
		Weekdays:   append([]string{}, sel.Weekdays...),
	}
}
