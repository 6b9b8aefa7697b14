package v1

import (
	"context"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/tenants"
)

type (
	// SessionsFeature reports the terminals currently connected.
	SessionsFeature interface {
		List() []entity.SessionInfo
		Count() int
	}

	// TenantsFeature reloads and lists the SC tenant mapping.
	TenantsFeature interface {
		Reload(ctx context.Context) error
		List() []tenants.Tenant
	}

	// ConfigurationReloader drops a tenant's cached ACS configuration.
	ConfigurationReloader interface {
		Reload(tenant string)
	}
)
