package mcp

import (
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry is one cached search response with its expiration time
type cacheEntry struct {
	payload   string
	expiresAt time.Time
}

// queryCache is a bounded LRU of rendered search responses. Entries expire
// after the TTL; loading a collection purges the whole cache since cached
// responses may reference replaced records.
type queryCache struct {
	mu  sync.RWMutex
	lru *lru.Cache[uint64, *cacheEntry]
	ttl time.Duration
}

func newQueryCache(size int, ttl time.Duration) (*queryCache, error) {
	c, err := lru.New[uint64, *cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &queryCache{lru: c, ttl: ttl}, nil
}

func (c *queryCache) get(key uint64) (string, bool) {
	now := time.Now()

	c.mu.RLock()
	entry, found := c.lru.Get(key)
	if !found {
		c.mu.RUnlock()
		return "", false
	}

	// Check expiry while holding the read lock to avoid racing a purge.
	if now.After(entry.expiresAt) {
		c.mu.RUnlock()

		c.mu.Lock()
		c.lru.Remove(key)
		c.mu.Unlock()
		return "", false
	}

	payload := entry.payload
	c.mu.RUnlock()
	return payload, true
}

func (c *queryCache) put(key uint64, payload string) {
	entry := &cacheEntry{
		payload:   payload,
		expiresAt: time.Now().Add(c.ttl),
	}

	c.mu.Lock()
	c.lru.Add(key, entry)
	c.mu.Unlock()
}

func (c *queryCache) purge() {
	c.mu.Lock()
	c.lru.Purge()
	c.mu.Unlock()
}

func (c *queryCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// queryKey hashes the canonical string representation of a search request.
func queryKey(parts ...any) uint64 {
	h := xxhash.New()
	for _, p := range parts {
		_, _ = fmt.Fprintf(h, "%v|", p)
	}
	return h.Sum64()
}
