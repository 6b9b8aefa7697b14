package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v2"
)

var GatewayConfig *Config

var (
	// ErrInvalidCacheTTL is returned when a cache duration is negative.
	ErrInvalidCacheTTL = errors.New("cache ttl must not be negative")
	// ErrUnknownTenantSource is returned for a tenants.source other than file or vault.
	ErrUnknownTenantSource = errors.New("unknown tenant source")
)

const (
	TenantSourceFile  = "file"
	TenantSourceVault = "vault"
)

type (
	// Config -.
	Config struct {
		App     `yaml:"app"`
		HTTP    `yaml:"http"`
		Log     `yaml:"logger"`
		Secrets `yaml:"secrets"`
		Okapi   `yaml:"okapi"`
		Cache   `yaml:"cache"`
		SIP2    SIP2    `yaml:"sip2"`
		Tenants Tenants `yaml:"tenants"`
	}

	// App -.
	App struct {
		Name    string `env-required:"true" yaml:"name" env:"APP_NAME"`
		Repo    string `env-required:"true" yaml:"repo" env:"APP_REPO"`
		Version string `env-required:"true"`
	}

	// HTTP is the admin listener serving health, metrics and reload endpoints.
	HTTP struct {
		Host           string   `env-required:"true" yaml:"host" env:"HTTP_HOST"`
		Port           string   `env-required:"true" yaml:"port" env:"HTTP_PORT"`
		AllowedOrigins []string `env-required:"true" yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS"`
		AllowedHeaders []string `env-required:"true" yaml:"allowed_headers" env:"HTTP_ALLOWED_HEADERS"`
		TLS            TLS      `yaml:"tls"`

		ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
	}

	// TLS -.
	TLS struct {
		Enabled    bool   `yaml:"enabled" env:"HTTP_TLS_ENABLED"`
		CertFile   string `yaml:"certFile" env:"HTTP_TLS_CERT_FILE"`
		KeyFile    string `yaml:"keyFile" env:"HTTP_TLS_KEY_FILE"`
		// SecretName names a certificate kept in the secrets store under certs/.
		SecretName string `yaml:"secretName" env:"HTTP_TLS_SECRET_NAME"`
	}

	// Log -.
	Log struct {
		Level string `env-required:"true" yaml:"log_level" env:"LOG_LEVEL"`
	}

	// Secrets -.
	Secrets struct {
		Address string `yaml:"address" env:"SECRETS_ADDR"`
		Token   string `yaml:"token" env:"SECRETS_TOKEN"`
		Path    string `yaml:"path" env:"SECRETS_PATH"`
	}

	// Okapi describes the upstream circulation backend.
	Okapi struct {
		URL            string        `env-required:"true" yaml:"url" env:"OKAPI_URL"`
		Timeout        time.Duration `yaml:"timeout" env:"OKAPI_TIMEOUT"`
		RateLimit      float64       `yaml:"rate_limit" env:"OKAPI_RATE_LIMIT"`
		RateBurst      int           `yaml:"rate_burst" env:"OKAPI_RATE_BURST"`
		MaxConcurrency int           `yaml:"max_concurrency" env:"OKAPI_MAX_CONCURRENCY"`
		MaxItems       int           `yaml:"max_items" env:"OKAPI_MAX_ITEMS"`
	}

	// Cache -.
	Cache struct {
		TTL             time.Duration `yaml:"ttl" env:"CACHE_TTL"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" env:"CACHE_CLEANUP_INTERVAL"`
	}

	// SIP2 is the terminal-facing listener.
	SIP2 struct {
		Host           string        `yaml:"host" env:"SIP2_HOST"`
		Port           string        `env-required:"true" yaml:"port" env:"SIP2_PORT"`
		IdleTimeout    time.Duration `yaml:"idle_timeout" env:"SIP2_IDLE_TIMEOUT"`
		SessionTimeout time.Duration `yaml:"session_timeout" env:"SIP2_SESSION_TIMEOUT"`
		TLS            SIP2TLS       `yaml:"tls"`
	}

	// SIP2TLS -.
	SIP2TLS struct {
		Enabled    bool   `yaml:"enabled" env:"SIP2_TLS_ENABLED"`
		CertFile   string `yaml:"certFile" env:"SIP2_TLS_CERT_FILE"`
		KeyFile    string `yaml:"keyFile" env:"SIP2_TLS_KEY_FILE"`
		// SecretName names a certificate kept in the secrets store under certs/.
		SecretName string `yaml:"secretName" env:"SIP2_TLS_SECRET_NAME"`
	}

	// Tenants selects where the SC tenant mapping comes from.
	Tenants struct {
		Source  string         `yaml:"source" env:"TENANTS_SOURCE"`
		Default string         `yaml:"default" env:"TENANTS_DEFAULT"`
		List    []TenantConfig `yaml:"list"`
	}

	// TenantConfig maps terminals (by subnet) to a tenant and its wire settings.
	TenantConfig struct {
		Tenant                             string `yaml:"tenant" json:"tenant" validate:"required"`
		SCSubnet                           string `yaml:"scSubnet" json:"scSubnet" validate:"omitempty,cidr"`
		ErrorDetectionEnabled              bool   `yaml:"errorDetectionEnabled" json:"errorDetectionEnabled"`
		MessageDelimiter                   string `yaml:"messageDelimiter" json:"messageDelimiter" validate:"omitempty,min=1,max=2"`
		FieldDelimiter                     string `yaml:"fieldDelimiter" json:"fieldDelimiter" validate:"omitempty,len=1"`
		Charset                            string `yaml:"charset" json:"charset" validate:"omitempty,oneof=ISO-8859-1 IBM850 UTF-8"`
		PatronPasswordVerificationRequired bool   `yaml:"patronPasswordVerificationRequired" json:"patronPasswordVerificationRequired"`
	}
)

// defaultConfig constructs the in-memory default configuration.
func defaultConfig() *Config {
	return &Config{
		App: App{
			Name:    "sip2gateway",
			Repo:    "circulation-toolkit/sip2gateway",
			Version: "DEVELOPMENT",
		},
		HTTP: HTTP{
			Host:           "localhost",
			Port:           "8181",
			AllowedOrigins: []string{"*"},
			AllowedHeaders: []string{"*"},
			TLS: TLS{
				Enabled:  false,
				CertFile: "",
				KeyFile:  "",
			},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 3 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
		Secrets: Secrets{
			Address: "http://localhost:8200",
			Token:   "",
			Path:    "secret/data/sip2gateway",
		},
		Okapi: Okapi{
			URL:            "http://localhost:9130",
			Timeout:        30 * time.Second,
			RateLimit:      50,
			RateBurst:      100,
			MaxConcurrency: 8,
			MaxItems:       25,
		},
		Cache: Cache{
			TTL:             5 * time.Minute,
			CleanupInterval: time.Minute,
		},
		SIP2: SIP2{
			Host:           "",
			Port:           "6443",
			IdleTimeout:    30 * time.Minute,
			SessionTimeout: 2 * time.Hour,
		},
		Tenants: Tenants{
			Source:  TenantSourceFile,
			Default: "diku",
			List: []TenantConfig{
				{
					Tenant:           "diku",
					MessageDelimiter: "\r",
					FieldDelimiter:   "|",
					Charset:          "ISO-8859-1",
				},
			},
		},
	}
}

// ValidateCacheConfig -.
func ValidateCacheConfig(c Cache) error {
	if c.TTL < 0 || c.CleanupInterval < 0 {
		return ErrInvalidCacheTTL
	}

	return nil
}

// ValidateTenants checks the tenant source and every configured tenant entry.
func ValidateTenants(t Tenants) error {
	if t.Source != TenantSourceFile && t.Source != TenantSourceVault {
		return fmt.Errorf("%w: %q", ErrUnknownTenantSource, t.Source)
	}

	return ValidateTenantList(t.List)
}

// ValidateTenantList validates tenant entries regardless of where they were loaded from.
func ValidateTenantList(list []TenantConfig) error {
	validate := validator.New()

	for i := range list {
		if err := validate.Struct(list[i]); err != nil {
			return fmt.Errorf("tenant entry %d: %w", i, err)
		}
	}

	return nil
}

// resolveConfigPath determines the effective config file path based on a flag value or default location.
func resolveConfigPath(configPathFlag string) (string, error) {
	if configPathFlag != "" {
		return configPathFlag, nil
	}

	ex, err := os.Executable()
	if err != nil {
		return "", err
	}

	return filepath.Join(filepath.Dir(ex), "config", "config.yml"), nil
}

// readOrInitConfig reads the config file, writing cfg out as the initial file when none exists.
func readOrInitConfig(configPath string, cfg *Config) error {
	err := cleanenv.ReadConfig(configPath, cfg)
	if err == nil {
		return nil
	}

	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		return err
	}

	if mkErr := os.MkdirAll(filepath.Dir(configPath), os.ModePerm); mkErr != nil {
		return mkErr
	}

	file, cErr := os.Create(configPath)
	if cErr != nil {
		return cErr
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	defer encoder.Close()

	return encoder.Encode(cfg)
}

// NewConfig returns app config.
func NewConfig() (*Config, error) {
	GatewayConfig = defaultConfig()

	var configPathFlag string
	if flag.Lookup("config") == nil {
		flag.StringVar(&configPathFlag, "config", "", "path to config file")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	configPath, err := resolveConfigPath(configPathFlag)
	if err != nil {
		return nil, err
	}

	if err := readOrInitConfig(configPath, GatewayConfig); err != nil {
		return nil, err
	}

	if err := cleanenv.ReadEnv(GatewayConfig); err != nil {
		return nil, err
	}

	if err := ValidateCacheConfig(GatewayConfig.Cache); err != nil {
		return nil, err
	}

	if err := ValidateTenants(GatewayConfig.Tenants); err != nil {
		return nil, err
	}

	return GatewayConfig, nil
}
