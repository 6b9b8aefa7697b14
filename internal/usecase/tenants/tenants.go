// Package tenants maps terminal addresses to the tenant they serve.
package tenants

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/circulation-toolkit/sip2gateway/config"
	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

const defaultMessageDelimiter = "\r"

// ErrUnknownTerminal is returned when no tenant entry covers a terminal address.
var ErrUnknownTerminal = errors.New("no tenant configured for terminal")

// Source loads the SC tenant entries.
type Source interface {
	LoadTenants(ctx context.Context) ([]config.TenantConfig, error)
}

// StaticSource serves the entries from the configuration file.
type StaticSource []config.TenantConfig

// LoadTenants -.
func (s StaticSource) LoadTenants(_ context.Context) ([]config.TenantConfig, error) {
	return s, nil
}

// Tenant is a resolved tenant entry with its wire settings.
type Tenant struct {
	ID                                 string `json:"tenant"`
	Subnet                             string `json:"scSubnet,omitempty"`
	ErrorDetectionEnabled              bool   `json:"errorDetectionEnabled"`
	MessageDelimiter                   string `json:"messageDelimiter"`
	FieldDelimiter                     byte   `json:"-"`
	Charset                            string `json:"charset"`
	PatronPasswordVerificationRequired bool   `json:"patronPasswordVerificationRequired"`

	prefix netip.Prefix
}

// Apply copies the tenant's wire settings onto a new session.
func (t *Tenant) Apply(s *entity.Session) {
	s.TenantID = t.ID
	s.FieldDelimiter = t.FieldDelimiter
	s.Charset = t.Charset
	s.ErrorDetectionEnabled = t.ErrorDetectionEnabled
	s.PatronPasswordVerificationRequired = t.PatronPasswordVerificationRequired
}

func newTenant(c config.TenantConfig) (Tenant, error) {
	t := Tenant{
		ID:                                 c.Tenant,
		Subnet:                             c.SCSubnet,
		ErrorDetectionEnabled:              c.ErrorDetectionEnabled,
		MessageDelimiter:                   c.MessageDelimiter,
		FieldDelimiter:                     entity.DefaultFieldDelimiter,
		Charset:                            c.Charset,
		PatronPasswordVerificationRequired: c.PatronPasswordVerificationRequired,
	}

	if t.MessageDelimiter == "" {
		t.MessageDelimiter = defaultMessageDelimiter
	}

	if c.FieldDelimiter != "" {
		t.FieldDelimiter = c.FieldDelimiter[0]
	}

	if t.Charset == "" {
		t.Charset = entity.DefaultCharset
	}

	if c.SCSubnet != "" {
		p, err := netip.ParsePrefix(c.SCSubnet)
		if err != nil {
			return Tenant{}, fmt.Errorf("tenant %s: %w", c.Tenant, err)
		}

		t.prefix = p.Masked()
	}

	return t, nil
}

type snapshot struct {
	// subnets is ordered most specific first.
	subnets  []Tenant
	fallback *Tenant
	all      []Tenant
}

// Registry holds an immutable snapshot of the tenant entries. Lookups read
// the current snapshot without locking; Reload swaps in a new one.
type Registry struct {
	source        Source
	defaultTenant string
	log           logger.Interface

	current atomic.Pointer[snapshot]
	reload  sync.Mutex
}

// New returns an empty registry. Call Reload before resolving.
func New(source Source, defaultTenant string, log logger.Interface) *Registry {
	r := &Registry{source: source, defaultTenant: defaultTenant, log: log}
	r.current.Store(&snapshot{})

	return r
}

// Reload loads the entries from the source. On any error the previous
// snapshot stays in place.
func (r *Registry) Reload(ctx context.Context) error {
	r.reload.Lock()
	defer r.reload.Unlock()

	list, err := r.source.LoadTenants(ctx)
	if err != nil {
		tenantReloads.WithLabelValues("error").Inc()

		return fmt.Errorf("load tenants: %w", err)
	}

	if err := config.ValidateTenantList(list); err != nil {
		tenantReloads.WithLabelValues("invalid").Inc()

		return err
	}

	snap, err := r.build(list)
	if err != nil {
		tenantReloads.WithLabelValues("invalid").Inc()

		return err
	}

	r.current.Store(snap)
	tenantReloads.WithLabelValues("ok").Inc()
	tenantsConfigured.Set(float64(len(snap.all)))

	r.log.Info("loaded %d tenant entries", len(snap.all))

	return nil
}

func (r *Registry) build(list []config.TenantConfig) (*snapshot, error) {
	snap := &snapshot{all: make([]Tenant, 0, len(list))}

	for _, c := range list {
		t, err := newTenant(c)
		if err != nil {
			return nil, err
		}

		snap.all = append(snap.all, t)

		switch {
		case t.prefix.IsValid():
			snap.subnets = append(snap.subnets, t)
		case snap.fallback == nil || t.ID == r.defaultTenant:
			fallback := t
			snap.fallback = &fallback
		}
	}

	sort.SliceStable(snap.subnets, func(i, j int) bool {
		return snap.subnets[i].prefix.Bits() > snap.subnets[j].prefix.Bits()
	})

	if snap.fallback == nil {
		for i := range snap.all {
			if snap.all[i].ID == r.defaultTenant {
				fallback := snap.all[i]
				fallback.Subnet = ""
				fallback.prefix = netip.Prefix{}
				snap.fallback = &fallback

				break
			}
		}
	}

	return snap, nil
}

// Resolve returns the tenant for a terminal address ("host:port" or a bare
// host). The most specific matching subnet wins; terminals outside every
// subnet get the default entry.
func (r *Registry) Resolve(remoteAddr string) (Tenant, error) {
	snap := r.current.Load()

	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		addr = addr.Unmap()

		for i := range snap.subnets {
			if snap.subnets[i].prefix.Contains(addr) {
				return snap.subnets[i], nil
			}
		}
	}

	if snap.fallback != nil {
		return *snap.fallback, nil
	}

	return Tenant{}, fmt.Errorf("%w: %s", ErrUnknownTerminal, remoteAddr)
}

// List returns the loaded entries in source order.
func (r *Registry) List() []Tenant {
	snap := r.current.Load()

	out := make([]Tenant, len(snap.all))
	copy(out, snap.all)

	return out
}
