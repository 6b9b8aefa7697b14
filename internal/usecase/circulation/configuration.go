package circulation

import (
	"context"
	"encoding/json"

	"github.com/circulation-toolkit/sip2gateway/internal/cache"
	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

const (
	resourceConfiguration = "configuration"

	acsConfigQuery      = `(module=="SIP2" and configName=="acsTenantConfig")`
	localeConfigQuery   = `(module=="ORG" and configName=="localeSettings")`
	localeSettingsQuery = `(scope=="stripes-core.prefs.manage" and key=="tenantLocaleSettings")`
)

// TenantConfiguration is what the ACS reports about itself to terminals.
type TenantConfiguration struct {
	Tenant            string             `json:"tenant"`
	LibraryName       string             `json:"libraryName"`
	TerminalLocation  string             `json:"terminalLocation"`
	Timezone          string             `json:"timezone"`
	Locale            string             `json:"locale"`
	Currency          string             `json:"currency"`
	CheckinOK         bool               `json:"checkinOk"`
	CheckoutOK        bool               `json:"checkoutOk"`
	ACSRenewalPolicy  bool               `json:"acsRenewalPolicy"`
	StatusUpdateOK    bool               `json:"statusUpdateOk"`
	OfflineOK         bool               `json:"offlineOk"`
	TimeoutPeriod     int                `json:"timeoutPeriod"`
	RetriesAllowed    int                `json:"retriesAllowed"`
	SupportedMessages []SupportedMessage `json:"supportedMessages"`
}

// SupportedMessage switches one SIP2 message on or off for a tenant.
type SupportedMessage struct {
	MessageName string `json:"messageName"`
	IsSupported string `json:"isSupported"`
}

// Supported reports whether the entry enables its message.
func (m SupportedMessage) Supported() bool {
	return m.IsSupported == "Y" || m.IsSupported == "y"
}

// DefaultTenantConfiguration is used for anything the backend does not configure.
func DefaultTenantConfiguration(tenant string) TenantConfiguration {
	return TenantConfiguration{
		Tenant:           tenant,
		Timezone:         entity.DefaultTimezone,
		Locale:           entity.DefaultLocale,
		Currency:         entity.DefaultCurrency,
		CheckinOK:        true,
		CheckoutOK:       true,
		ACSRenewalPolicy: true,
		TimeoutPeriod:    5,
		RetriesAllowed:   3,
	}
}

type configEntry struct {
	Value string `json:"value"`
}

type configEntries struct {
	Configs []configEntry `json:"configs"`
}

type localeSettings struct {
	Locale   string `json:"locale"`
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
}

type settingsEntries struct {
	Items []struct {
		Value localeSettings `json:"value"`
	} `json:"items"`
}

// acsTenantConfig is the legacy per-tenant SIP2 configuration entry.
type acsTenantConfig struct {
	LibraryName       *string            `json:"libraryName"`
	TerminalLocation  *string            `json:"terminalLocation"`
	CheckinOK         *bool              `json:"checkinOk"`
	CheckoutOK        *bool              `json:"checkoutOk"`
	ACSRenewalPolicy  *bool              `json:"acsRenewalPolicy"`
	StatusUpdateOK    *bool              `json:"statusUpdateOk"`
	OfflineOK         *bool              `json:"offlineOk"`
	TimeoutPeriod     *int               `json:"timeoutPeriod"`
	RetriesAllowed    *int               `json:"retriesAllowed"`
	SupportedMessages []SupportedMessage `json:"supportedMessages"`
}

// ConfigurationResource reads and caches per-tenant ACS configuration.
type ConfigurationResource struct {
	client *Client
	cache  *cache.Cache
	log    logger.Interface
}

// NewConfigurationResource -.
func NewConfigurationResource(c *Client, ch *cache.Cache, log logger.Interface) *ConfigurationResource {
	return &ConfigurationResource{client: c, cache: ch, log: log}
}

// GetTenantConfiguration merges, lowest precedence first, the built-in
// defaults, the legacy SIP2 entry, the ORG locale entry and the
// tenant-scoped locale settings. A source that fails to load is skipped.
func (r *ConfigurationResource) GetTenantConfiguration(ctx context.Context, tok auth.Token, tenant string) TenantConfiguration {
	key := cache.MakeTenantConfigKey(tenant)

	if v, ok := r.cache.Get(key); ok {
		if cfg, ok := v.(TenantConfiguration); ok {
			return cfg
		}
	}

	cfg := DefaultTenantConfiguration(tenant)
	complete := true

	if legacy, err := r.legacyConfig(ctx, tok); err != nil {
		complete = false

		r.log.Warn("tenant %s: legacy ACS configuration unavailable: %v", tenant, err)
	} else if legacy != nil {
		legacy.apply(&cfg)
	}

	if locale, err := r.orgLocale(ctx, tok); err != nil {
		complete = false

		r.log.Warn("tenant %s: locale configuration unavailable: %v", tenant, err)
	} else if locale != nil {
		locale.apply(&cfg)
	}

	if locale, err := r.tenantLocale(ctx, tok); err != nil {
		complete = false

		r.log.Warn("tenant %s: tenant locale settings unavailable: %v", tenant, err)
	} else if locale != nil {
		locale.apply(&cfg)
	}

	// Partial results are served but not cached, so the next command retries.
	if complete {
		r.cache.Set(key, cfg, 0)
	} else {
		degradedCalls.WithLabelValues(resourceConfiguration).Inc()
	}

	return cfg
}

// Reload drops the cached configuration of a tenant.
func (r *ConfigurationResource) Reload(tenant string) {
	cache.InvalidateTenantCache(r.cache, tenant)
}

func (r *ConfigurationResource) legacyConfig(ctx context.Context, tok auth.Token) (*acsTenantConfig, error) {
	value, err := r.configValue(ctx, tok, acsConfigQuery)
	if err != nil || value == "" {
		return nil, err
	}

	var c acsTenantConfig
	if err := json.Unmarshal([]byte(value), &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *ConfigurationResource) orgLocale(ctx context.Context, tok auth.Token) (*localeSettings, error) {
	value, err := r.configValue(ctx, tok, localeConfigQuery)
	if err != nil || value == "" {
		return nil, err
	}

	var l localeSettings
	if err := json.Unmarshal([]byte(value), &l); err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *ConfigurationResource) configValue(ctx context.Context, tok auth.Token, cql string) (string, error) {
	var entries configEntries
	if err := r.client.Get(ctx, tok, resourceConfiguration, "/configurations/entries", pageQuery(cql, 0, 1), &entries); err != nil {
		return "", err
	}

	if len(entries.Configs) == 0 {
		return "", nil
	}

	return entries.Configs[0].Value, nil
}

func (r *ConfigurationResource) tenantLocale(ctx context.Context, tok auth.Token) (*localeSettings, error) {
	var entries settingsEntries
	if err := r.client.Get(ctx, tok, resourceConfiguration, "/settings/entries", pageQuery(localeSettingsQuery, 0, 1), &entries); err != nil {
		return nil, err
	}

	if len(entries.Items) == 0 {
		return nil, nil
	}

	return &entries.Items[0].Value, nil
}

func (l *localeSettings) apply(cfg *TenantConfiguration) {
	if l.Locale != "" {
		cfg.Locale = l.Locale
	}

	if l.Timezone != "" {
		cfg.Timezone = l.Timezone
	}

	if l.Currency != "" {
		cfg.Currency = l.Currency
	}
}

func (c *acsTenantConfig) apply(cfg *TenantConfiguration) {
	setString(&cfg.LibraryName, c.LibraryName)
	setString(&cfg.TerminalLocation, c.TerminalLocation)
	setBool(&cfg.CheckinOK, c.CheckinOK)
	setBool(&cfg.CheckoutOK, c.CheckoutOK)
	setBool(&cfg.ACSRenewalPolicy, c.ACSRenewalPolicy)
	setBool(&cfg.StatusUpdateOK, c.StatusUpdateOK)
	setBool(&cfg.OfflineOK, c.OfflineOK)

	if c.TimeoutPeriod != nil {
		cfg.TimeoutPeriod = *c.TimeoutPeriod
	}

	if c.RetriesAllowed != nil {
		cfg.RetriesAllowed = *c.RetriesAllowed
	}

	if c.SupportedMessages != nil {
		cfg.SupportedMessages = c.SupportedMessages
	}
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst, src *bool) {
	if src != nil {
		*dst = *src
	}
}
