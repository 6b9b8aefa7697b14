package dispatch

import (
	"context"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

// checkinHandler answers 09.
type checkinHandler struct {
	*base
}

func (h *checkinHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.CheckinRequest](h.base, cmd)

	degraded := sip2.CheckinResponse{
		OK:              false,
		MagneticMedia:   sip2.TristateUnknown,
		TransactionDate: h.now(),
		InstitutionID:   s.TenantID,
		ItemIdentifier:  req.ItemIdentifier,
	}

	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	tok, err := h.b.Auth.ResolveAccessToken(ctx, s)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	res, err := h.b.Circulation.CheckIn(ctx, tok, req.ItemIdentifier, s.ServicePointID, req.ReturnDate)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	resp := sip2.CheckinResponse{
		OK:                true,
		Resensitize:       true,
		MagneticMedia:     sip2.TristateUnknown,
		TransactionDate:   h.now(),
		InstitutionID:     s.TenantID,
		ItemIdentifier:    req.ItemIdentifier,
		PermanentLocation: res.Item.Location.Name,
		TitleIdentifier:   res.Item.Title,
	}

	if res.Loan != nil && res.Loan.UserID != "" {
		resp.PatronIdentifier = res.Loan.UserID
	}

	if res.Item.Destination.Name != "" || res.Item.Status.Name == "In transit" {
		resp.Alert = true
		resp.Resensitize = false
		resp.ScreenMessage = []string{"Item in transit. Please see a staff member."}

		if dest := res.Item.Destination.Name; dest != "" {
			resp.SortBin = dest
			resp.ScreenMessage = []string{"Item in transit to " + dest}
		}
	}

	return respond(resp), nil
}

// checkoutHandler answers 11.
type checkoutHandler struct {
	*base
}

func (h *checkoutHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.CheckoutRequest](h.base, cmd)

	degraded := sip2.CheckoutResponse{
		OK:               false,
		MagneticMedia:    sip2.TristateUnknown,
		Desensitize:      sip2.TristateNo,
		TransactionDate:  h.now(),
		InstitutionID:    s.TenantID,
		PatronIdentifier: req.PatronIdentifier,
		ItemIdentifier:   req.ItemIdentifier,
	}

	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	tok, err := h.b.Auth.ResolveAccessToken(ctx, s)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	if _, err = h.authorizePatron(ctx, s, tok, req.PatronIdentifier, req.PatronPassword); err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	loan, err := h.b.Circulation.CheckOut(ctx, tok, req.ItemIdentifier, req.PatronIdentifier, s.ServicePointID)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	return respond(sip2.CheckoutResponse{
		OK:               true,
		RenewalOK:        true,
		MagneticMedia:    sip2.TristateUnknown,
		Desensitize:      sip2.TristateYes,
		TransactionDate:  h.now(),
		InstitutionID:    s.TenantID,
		PatronIdentifier: req.PatronIdentifier,
		ItemIdentifier:   req.ItemIdentifier,
		TitleIdentifier:  loan.Title(),
		DueDate:          loan.DueDate,
	}), nil
}

// renewHandler answers 29.
type renewHandler struct {
	*base
}

func (h *renewHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.RenewRequest](h.base, cmd)

	degraded := sip2.RenewResponse{
		OK:               false,
		MagneticMedia:    sip2.TristateUnknown,
		Desensitize:      sip2.TristateNo,
		TransactionDate:  h.now(),
		InstitutionID:    s.TenantID,
		PatronIdentifier: req.PatronIdentifier,
		ItemIdentifier:   req.ItemIdentifier,
	}

	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	tok, err := h.b.Auth.ResolveAccessToken(ctx, s)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	if _, err = h.authorizePatron(ctx, s, tok, req.PatronIdentifier, req.PatronPassword); err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	loan, err := h.b.Circulation.Renew(ctx, tok, req.ItemIdentifier, req.PatronIdentifier)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	return respond(sip2.RenewResponse{
		OK:               true,
		RenewalOK:        true,
		MagneticMedia:    sip2.TristateUnknown,
		Desensitize:      sip2.TristateYes,
		TransactionDate:  h.now(),
		InstitutionID:    s.TenantID,
		PatronIdentifier: req.PatronIdentifier,
		ItemIdentifier:   req.ItemIdentifier,
		TitleIdentifier:  loan.Title(),
		DueDate:          loan.DueDate,
	}), nil
}

// renewAllHandler answers 65.
type renewAllHandler struct {
	*base
}

func (h *renewAllHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.RenewAllRequest](h.base, cmd)

	degraded := sip2.RenewAllResponse{
		OK:              false,
		TransactionDate: h.now(),
		InstitutionID:   s.TenantID,
	}

	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	tok, err := h.b.Auth.ResolveAccessToken(ctx, s)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	user, err := h.authorizePatron(ctx, s, tok, req.PatronIdentifier, req.PatronPassword)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	res, err := h.b.Circulation.RenewAll(ctx, tok, user.ID, req.PatronIdentifier, h.b.MaxRenewals)
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	return respond(sip2.RenewAllResponse{
		OK:              true,
		RenewedCount:    len(res.Renewed),
		UnrenewedCount:  len(res.Unrenewed),
		TransactionDate: h.now(),
		InstitutionID:   s.TenantID,
		RenewedItems:    res.Renewed,
		UnrenewedItems:  res.Unrenewed,
	}), nil
}
