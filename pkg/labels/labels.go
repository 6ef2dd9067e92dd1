// Package labels provides an injected display-label cache keyed by external
// identifiers (students, subjects). One cache lives per application session
// so tests and parallel views can isolate their own state instead of sharing
// a module-level map.
package labels

import (
	"strings"
	"sync"
)

// Cache maps opaque identifiers to resolved human-readable labels.
type Cache struct {
	mu     sync.RWMutex
	labels map[string]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{labels: make(map[string]string)}
}

// Get returns the label for id, if known.
func (c *Cache) Get(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.labels[id]
	return v, ok
}

// Set records a label. Empty labels are ignored so a failed hydration cannot
// shadow a previously resolved name.
func (c *Cache) Set(id, label string) {
	label = strings.TrimSpace(label)
	if id == "" || label == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels[id] = label
}

// Has reports whether id has a resolved label.
func (c *Cache) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.labels[id]
	return ok
}

// Resolve returns the cached label for id, or fallback when unknown.
func (c *Cache) Resolve(id, fallback string) string {
	if v, ok := c.Get(id); ok {
		return v
	}
	return fallback
}

// Len reports how many labels are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.labels)
}
