package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv() {
	os.Unsetenv("APP_NAME")
	os.Unsetenv("HTTP_PORT")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("OKAPI_URL")
	os.Unsetenv("OKAPI_TIMEOUT")
	os.Unsetenv("SIP2_PORT")
	os.Unsetenv("CACHE_TTL")
}

func TestNewConfig_Defaults(t *testing.T) { //nolint:paralleltest // cannot have simultaneous tests modifying environment variables
	clearEnv()

	cfg, err := NewConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "sip2gateway", cfg.Name)
	assert.Equal(t, "circulation-toolkit/sip2gateway", cfg.Repo)
	assert.Equal(t, "DEVELOPMENT", cfg.Version)

	assert.Equal(t, "localhost", cfg.HTTP.Host)
	assert.Equal(t, "8181", cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.HTTP.TLS.Enabled)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "http://localhost:9130", cfg.Okapi.URL)
	assert.Equal(t, 30*time.Second, cfg.Okapi.Timeout)
	assert.Equal(t, "6443", cfg.SIP2.Port)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)

	assert.Equal(t, TenantSourceFile, cfg.Tenants.Source)
	require.Len(t, cfg.Tenants.List, 1)
	assert.Equal(t, "diku", cfg.Tenants.List[0].Tenant)
	assert.Equal(t, "|", cfg.Tenants.List[0].FieldDelimiter)
}

func TestNewConfig_EnvVars(t *testing.T) { //nolint:paralleltest // cannot have simultaneous tests modifying environment variables
	os.Setenv("APP_NAME", "testApp")
	os.Setenv("HTTP_PORT", "9090")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("OKAPI_URL", "https://okapi.example.org")
	os.Setenv("OKAPI_TIMEOUT", "5s")
	os.Setenv("SIP2_PORT", "1024")

	defer clearEnv()

	cfg, err := NewConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "testApp", cfg.Name)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "https://okapi.example.org", cfg.Okapi.URL)
	assert.Equal(t, 5*time.Second, cfg.Okapi.Timeout)
	assert.Equal(t, "1024", cfg.SIP2.Port)
}

func TestNewConfig_InvalidCacheTTL(t *testing.T) { //nolint:paralleltest // cannot have simultaneous tests modifying environment variables
	os.Setenv("CACHE_TTL", "-1s")

	defer clearEnv()

	_, err := NewConfig()
	assert.ErrorIs(t, err, ErrInvalidCacheTTL)
}

func TestReadOrInitConfig_WritesDefaults(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/nested/config.yml"
	cfg := defaultConfig()

	require.NoError(t, readOrInitConfig(path, cfg))

	_, err := os.Stat(path)
	require.NoError(t, err)

	reread := defaultConfig()
	reread.SIP2.Port = ""

	require.NoError(t, readOrInitConfig(path, reread))
	assert.Equal(t, "6443", reread.SIP2.Port)
	assert.Equal(t, 5*time.Minute, reread.Cache.TTL)
}

func TestValidateCacheConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cache Cache
		err   error
	}{
		{name: "defaults", cache: Cache{TTL: time.Minute, CleanupInterval: time.Minute}},
		{name: "disabled", cache: Cache{}},
		{name: "negative ttl", cache: Cache{TTL: -time.Second}, err: ErrInvalidCacheTTL},
		{name: "negative cleanup", cache: Cache{CleanupInterval: -time.Second}, err: ErrInvalidCacheTTL},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateCacheConfig(tc.cache)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTenants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tenants Tenants
		wantErr bool
	}{
		{
			name: "valid file source",
			tenants: Tenants{Source: TenantSourceFile, List: []TenantConfig{
				{Tenant: "diku", SCSubnet: "10.0.0.0/8", FieldDelimiter: "|", Charset: "IBM850"},
			}},
		},
		{
			name:    "vault source with empty list",
			tenants: Tenants{Source: TenantSourceVault},
		},
		{
			name:    "unknown source",
			tenants: Tenants{Source: "s3"},
			wantErr: true,
		},
		{
			name:    "missing tenant id",
			tenants: Tenants{Source: TenantSourceFile, List: []TenantConfig{{SCSubnet: "10.0.0.0/8"}}},
			wantErr: true,
		},
		{
			name:    "bad subnet",
			tenants: Tenants{Source: TenantSourceFile, List: []TenantConfig{{Tenant: "a", SCSubnet: "10.0.0.300/8"}}},
			wantErr: true,
		},
		{
			name:    "multi-character field delimiter",
			tenants: Tenants{Source: TenantSourceFile, List: []TenantConfig{{Tenant: "a", FieldDelimiter: "||"}}},
			wantErr: true,
		},
		{
			name:    "unsupported charset",
			tenants: Tenants{Source: TenantSourceFile, List: []TenantConfig{{Tenant: "a", Charset: "EBCDIC"}}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateTenants(tc.tenants)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
