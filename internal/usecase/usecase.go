// Package usecase assembles the gateway's use cases from configuration.
package usecase

import (
	"net/http"

	"github.com/circulation-toolkit/sip2gateway/config"
	"github.com/circulation-toolkit/sip2gateway/internal/cache"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/circulation"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/dispatch"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/sessions"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/tenants"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

// Usecases -.
type Usecases struct {
	Auth          *auth.TokenManager
	Sessions      *sessions.Registry
	Tenants       *tenants.Registry
	Configuration *circulation.ConfigurationResource
	Dispatcher    *dispatch.Dispatcher
}

// NewUseCases wires the backend resources, the session and tenant registries
// and the command dispatcher. tenantSource supplies the SC tenant mapping.
func NewUseCases(cfg *config.Config, log logger.Interface, tenantSource tenants.Source) *Usecases {
	httpClient := &http.Client{Timeout: cfg.Okapi.Timeout}

	// Shared by configuration and service point lookups; Reload(tenant) clears both.
	ch := cache.NewFromConfig(cfg)

	tokens := auth.New(cfg.Okapi.URL, httpClient, log)

	client := circulation.NewClient(cfg.Okapi.URL, httpClient, log,
		circulation.WithRateLimit(cfg.Okapi.RateLimit, cfg.Okapi.RateBurst))

	profiles := circulation.NewProfileResource(client)
	loans := circulation.NewCirculationResource(client, log, cfg.Okapi.MaxConcurrency)
	feeFines := circulation.NewFeeFinesResource(client)
	items := circulation.NewItemsResource(client)
	configuration := circulation.NewConfigurationResource(client, ch, log)

	aggregator := circulation.NewAggregator(tokens, profiles, loans, feeFines, log,
		cfg.Okapi.MaxItems, cfg.Okapi.MaxConcurrency)

	dispatcher := dispatch.New(dispatch.Backend{
		Auth:          tokens,
		Patrons:       aggregator,
		Profiles:      profiles,
		Circulation:   loans,
		Payments:      feeFines,
		Items:         items,
		Configuration: configuration,
		ServicePoints: ch,
	}, sip2.NewRenderer(), sessions.NewResendCache(), log)

	return &Usecases{
		Auth:          tokens,
		Sessions:      sessions.NewRegistry(cfg.Cache.CleanupInterval, cfg.SIP2.SessionTimeout, log),
		Tenants:       tenants.New(tenantSource, cfg.Tenants.Default, log),
		Configuration: configuration,
		Dispatcher:    dispatcher,
	}
}
