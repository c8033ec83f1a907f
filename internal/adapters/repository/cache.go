package repository

import (
	"context"
	"sync"
)

// Cache memoizes the first successful Load of a Source. Entries live until
// the process exits; there is no invalidation.
type Cache struct {
	src Source

	mu     sync.Mutex
	loaded bool
	data   Dataset
}

// NewCache wraps src.
func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

// Load returns the cached dataset, reading it on first use. A failed
// attendance load is returned and retried on the next call.
func (c *Cache) Load(ctx context.Context) (Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.data, nil
	}
	d, err := Load(ctx, c.src)
	if err != nil {
		return Dataset{}, err
	}
	c.data, c.loaded = d, true
	return d, nil
}
