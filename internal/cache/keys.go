package cache

import "fmt"

// Cache key prefixes.
const (
	PrefixTenantConfig = "tenant:config:"
	PrefixServicePoint = "tenant:servicepoint:"
)

// MakeTenantConfigKey creates a cache key for a tenant's merged ACS configuration.
func MakeTenantConfigKey(tenant string) string {
	return fmt.Sprintf("%s%s", PrefixTenantConfig, tenant)
}

// MakeServicePointKey creates a cache key for a service point id looked up by its code.
func MakeServicePointKey(tenant, code string) string {
	return fmt.Sprintf("%s%s:%s", PrefixServicePoint, tenant, code)
}

// InvalidateTenantCache removes all cached data for a tenant.
func InvalidateTenantCache(c *Cache, tenant string) {
	c.Delete(MakeTenantConfigKey(tenant))
	c.DeletePrefix(fmt.Sprintf("%s%s:", PrefixServicePoint, tenant))
}
