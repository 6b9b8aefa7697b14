package cache

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// CleanupInterval is how often expired cache entries are removed when the config sets none.
	CleanupInterval = time.Minute
	// DefaultTTL is the default cache duration if not specified in config.
	DefaultTTL = 5 * time.Minute
)

// Cache holds per-tenant backend configuration between commands. Entries
// expire after the configured TTL and can be dropped explicitly on reload.
type Cache struct {
	store *cache.Cache
	ttl   time.Duration
}

// New creates a new Cache instance using in-memory storage.
// If ttl is 0, caching is disabled.
func New(ttl, cleanupInterval time.Duration) *Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = CleanupInterval
	}

	return &Cache{
		store: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Set stores a value in the cache with the given TTL.
// If cache TTL is 0 (disabled), this is a no-op.
// If ttl parameter is 0, uses the default cache TTL.
// If ttl parameter is negative, caching is skipped for this specific item.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if c.ttl == 0 {
		return
	}

	if ttl == 0 {
		ttl = c.ttl
	} else if ttl < 0 {
		return
	}

	c.store.Set(key, value, ttl)
}

// Get retrieves a value from the cache.
// If cache TTL is 0 (disabled), always returns nil, false.
func (c *Cache) Get(key string) (interface{}, bool) {
	if c.ttl == 0 {
		return nil, false
	}

	return c.store.Get(key)
}

// IsEnabled returns whether caching is enabled (TTL > 0).
func (c *Cache) IsEnabled() bool {
	return c.ttl > 0
}

// GetTTL returns the configured TTL.
func (c *Cache) GetTTL() time.Duration {
	return c.ttl
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// DeletePrefix removes every key starting with prefix and returns how many were removed.
func (c *Cache) DeletePrefix(prefix string) int {
	n := 0

	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)

			n++
		}
	}

	return n
}

// Len returns the number of unexpired entries.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}
