package dispatch

import (
	"context"
	"errors"

	"github.com/circulation-toolkit/sip2gateway/internal/cache"
	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/circulation"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

const protocolVersion = "2.00"

// messageNames maps the message names used in tenant configuration to commands.
var messageNames = map[string]sip2.CommandType{
	"PATRON_STATUS_REQUEST": sip2.PatronStatusRequest,
	"CHECKOUT":              sip2.Checkout,
	"CHECKIN":               sip2.Checkin,
	"BLOCK_PATRON":          sip2.BlockPatron,
	"SC_ACS_STATUS":         sip2.SCStatus,
	"REQUEST_SC_ACS_RESEND": sip2.RequestACSResend,
	"LOGIN":                 sip2.Login,
	"PATRON_INFORMATION":    sip2.PatronInformation,
	"END_PATRON_SESSION":    sip2.EndPatronSession,
	"FEE_PAID":              sip2.FeePaid,
	"ITEM_INFORMATION":      sip2.ItemInformation,
	"ITEM_STATUS_UPDATE":    sip2.ItemStatusUpdate,
	"PATRON_ENABLE":         sip2.PatronEnable,
	"HOLD":                  sip2.Hold,
	"RENEW":                 sip2.Renew,
	"RENEW_ALL":             sip2.RenewAll,
}

// scStatusHandler answers 99 with the tenant's ACS status.
type scStatusHandler struct {
	*base
}

func (h *scStatusHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.SCStatusRequest](h.base, cmd)
	if err != nil {
		return fail(s, sip2.SCResendResponse{}, err)
	}

	s.MaxPrintWidth = req.MaxPrintWidth

	online := true
	cfg := circulation.DefaultTenantConfiguration(s.TenantID)

	tok, err := h.b.Auth.ResolveAccessToken(ctx, s)

	var missing auth.MissingCredentialsError

	switch {
	case err == nil:
		cfg = h.b.Configuration.GetTenantConfiguration(ctx, tok, s.TenantID)
	case errors.As(err, &missing):
		// Not logged in yet: report defaults.
	default:
		h.log.Warn("session %s: acs status without backend: %v", s.ID, err)

		online = false
	}

	s.Timezone = cfg.Timezone
	s.Locale = cfg.Locale
	s.Currency = cfg.Currency

	return respond(sip2.ACSStatusResponse{
		OnlineStatus:      online,
		CheckinOK:         cfg.CheckinOK,
		CheckoutOK:        cfg.CheckoutOK,
		ACSRenewalPolicy:  cfg.ACSRenewalPolicy,
		StatusUpdateOK:    cfg.StatusUpdateOK,
		OfflineOK:         cfg.OfflineOK,
		TimeoutPeriod:     cfg.TimeoutPeriod,
		RetriesAllowed:    cfg.RetriesAllowed,
		DateTimeSync:      h.now(),
		ProtocolVersion:   protocolVersion,
		InstitutionID:     s.TenantID,
		LibraryName:       cfg.LibraryName,
		SupportedMessages: h.supportedMessages(cfg.SupportedMessages),
		TerminalLocation:  cfg.TerminalLocation,
	}), nil
}

// supportedMessages reports the commands this gateway serves, narrowed to
// those the tenant enables when it lists any.
func (h *scStatusHandler) supportedMessages(configured []circulation.SupportedMessage) sip2.SupportedMessages {
	enabled := func(t sip2.CommandType) bool {
		if !h.supported(t) {
			return false
		}

		if len(configured) == 0 {
			return true
		}

		for _, m := range configured {
			if messageNames[m.MessageName] == t {
				return m.Supported()
			}
		}

		return false
	}

	return sip2.SupportedMessages{
		PatronStatusRequest: enabled(sip2.PatronStatusRequest),
		Checkout:            enabled(sip2.Checkout),
		Checkin:             enabled(sip2.Checkin),
		BlockPatron:         enabled(sip2.BlockPatron),
		SCACSStatus:         enabled(sip2.SCStatus),
		RequestSCACSResend:  enabled(sip2.RequestACSResend),
		Login:               enabled(sip2.Login),
		PatronInformation:   enabled(sip2.PatronInformation),
		EndPatronSession:    enabled(sip2.EndPatronSession),
		FeePaid:             enabled(sip2.FeePaid),
		ItemInformation:     enabled(sip2.ItemInformation),
		ItemStatusUpdate:    enabled(sip2.ItemStatusUpdate),
		PatronEnable:        enabled(sip2.PatronEnable),
		Hold:                enabled(sip2.Hold),
		Renew:               enabled(sip2.Renew),
		RenewAll:            enabled(sip2.RenewAll),
	}
}

// loginHandler answers 93. A successful login also resolves the location
// code to the service point later circulation commands run at.
type loginHandler struct {
	*base
}

func (h *loginHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.LoginRequest](h.base, cmd)
	if err != nil {
		return fail(s, sip2.LoginResponse{OK: false}, err)
	}

	tok, err := h.b.Auth.Login(ctx, s, req.LoginUserID, req.LoginPassword)
	if err != nil {
		return fail(s, sip2.LoginResponse{OK: false}, err)
	}

	if req.LocationCode != "" {
		s.ServicePointID = h.servicePoint(ctx, s, tok, req.LocationCode)
	}

	return respond(sip2.LoginResponse{OK: true}), nil
}

func (h *loginHandler) servicePoint(ctx context.Context, s *entity.Session, tok auth.Token, code string) string {
	key := cache.MakeServicePointKey(s.TenantID, code)

	if h.b.ServicePoints != nil {
		if id, ok := h.b.ServicePoints.Get(key); ok {
			if sp, ok := id.(string); ok {
				return sp
			}
		}
	}

	id, err := h.b.Circulation.GetServicePointID(ctx, tok, code)
	if err != nil {
		h.log.Warn("session %s: service point %q lookup failed: %v", s.ID, code, err)

		return code
	}

	if id == "" {
		h.log.Warn("session %s: no service point with code %q", s.ID, code)

		return code
	}

	if h.b.ServicePoints != nil {
		h.b.ServicePoints.Set(key, id, 0)
	}

	return id
}
