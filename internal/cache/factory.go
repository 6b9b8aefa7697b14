package cache

import (
	"github.com/circulation-toolkit/sip2gateway/config"
)

// NewFromConfig creates a cache instance based on the application configuration.
// If cfg.Cache.TTL is 0, caching is disabled.
func NewFromConfig(cfg *config.Config) *Cache {
	return New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
}
