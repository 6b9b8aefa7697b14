package dispatch

import (
	"context"
	"strings"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/circulation"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

// Payment methods as the backend names them, by SIP2 payment type.
var paymentMethods = map[string]string{
	"00": "Cash",
	"01": "Credit card",
	"02": "Credit card",
}

const defaultPaymentMethod = "Cash"

// patronStatusHandler answers 23.
type patronStatusHandler struct {
	*base
}

func (h *patronStatusHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.PatronStatusRequestMessage](h.base, cmd)

	degraded := sip2.PatronStatusResponse{
		PatronStatus:     entity.AllPatronStatus,
		Language:         req.Language,
		TransactionDate:  h.now(),
		InstitutionID:    s.TenantID,
		PatronIdentifier: req.PatronIdentifier,
		ValidPatron:      sip2.Bool(false),
	}

	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	info, err := h.b.Patrons.PatronStatus(ctx, s, circulation.PatronQuery{
		PatronIdentifier: req.PatronIdentifier,
		PatronPassword:   req.PatronPassword,
	})
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	return respond(sip2.PatronStatusResponse{
		PatronStatus:        info.Status,
		Language:            req.Language,
		TransactionDate:     h.now(),
		InstitutionID:       s.TenantID,
		PatronIdentifier:    info.PatronIdentifier,
		PersonalName:        info.PersonalName,
		ValidPatron:         sip2.Bool(info.ValidPatron),
		ValidPatronPassword: info.ValidPatronPassword,
		CurrencyType:        s.Currency,
		FeeAmount:           circulation.FormatCents(info.FeeAmount),
		ScreenMessage:       info.ScreenMessage,
	}), nil
}

// patronInformationHandler answers 63.
type patronInformationHandler struct {
	*base
}

func (h *patronInformationHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.PatronInformationRequest](h.base, cmd)

	degraded := sip2.PatronInformationResponse{
		PatronStatus:     entity.AllPatronStatus,
		Language:         req.Language,
		TransactionDate:  h.now(),
		InstitutionID:    s.TenantID,
		PatronIdentifier: req.PatronIdentifier,
		ValidPatron:      sip2.Bool(false),
	}

	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	info, err := h.b.Patrons.PatronInformation(ctx, s, circulation.PatronQuery{
		PatronIdentifier: req.PatronIdentifier,
		PatronPassword:   req.PatronPassword,
		Summary:          req.Summary,
		StartItem:        req.StartItem,
		EndItem:          req.EndItem,
	})
	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	return respond(sip2.PatronInformationResponse{
		PatronStatus:          info.Status,
		Language:              req.Language,
		TransactionDate:       h.now(),
		HoldItemsCount:        info.Holds.Count,
		OverdueItemsCount:     info.Overdue.Count,
		ChargedItemsCount:     info.Charged.Count,
		FineItemsCount:        info.Fines.Count,
		RecallItemsCount:      info.Recalls.Count,
		UnavailableHoldsCount: info.UnavailableHolds.Count,
		InstitutionID:         s.TenantID,
		PatronIdentifier:      info.PatronIdentifier,
		PersonalName:          info.PersonalName,
		ValidPatron:           sip2.Bool(info.ValidPatron),
		ValidPatronPassword:   info.ValidPatronPassword,
		CurrencyType:          s.Currency,
		FeeAmount:             circulation.FormatCents(info.FeeAmount),
		HoldItems:             info.Holds.Items,
		OverdueItems:          info.Overdue.Items,
		ChargedItems:          info.Charged.Items,
		FineItems:             info.Fines.Items,
		RecallItems:           info.Recalls.Items,
		UnavailableHoldItems:  info.UnavailableHolds.Items,
		HomeAddress:           info.HomeAddress,
		EmailAddress:          info.Email,
		HomePhoneNumber:       info.Phone,
		ScreenMessage:         info.ScreenMessage,
	}), nil
}

// endPatronSessionHandler answers 35.
type endPatronSessionHandler struct {
	*base
}

func (h *endPatronSessionHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.EndPatronSessionRequest](h.base, cmd)
	if err != nil {
		return fail(s, sip2.EndSessionResponse{
			EndSession:       false,
			TransactionDate:  h.now(),
			InstitutionID:    s.TenantID,
			PatronIdentifier: req.PatronIdentifier,
			ScreenMessage:    screenMessage(err),
		}, err)
	}

	resp := sip2.EndSessionResponse{
		EndSession:       h.b.Patrons.EndPatronSession(ctx, s, req.PatronIdentifier),
		TransactionDate:  h.now(),
		InstitutionID:    s.TenantID,
		PatronIdentifier: req.PatronIdentifier,
	}

	// The terminal logs in again before serving the next patron.
	s.ClearCredentials()

	return respond(resp), nil
}

// feePaidHandler answers 37 by paying the patron's open accounts.
type feePaidHandler struct {
	*base
}

func (h *feePaidHandler) Handle(ctx context.Context, s *entity.Session, cmd sip2.Command) (Reply, error) {
	req, err := payload[sip2.FeePaidRequest](h.base, cmd)

	degraded := sip2.FeePaidResponse{
		PaymentAccepted:  false,
		TransactionDate:  h.now(),
		InstitutionID:    s.TenantID,
		PatronIdentifier: req.PatronIdentifier,
		TransactionID:    req.TransactionID,
	}

	if err != nil {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	if req.CurrencyType != "" && s.Currency != "" && !strings.EqualFold(req.CurrencyType, s.Currency) {
		h.log.Info("session %s: fee paid in %s, tenant currency is %s", s.ID, req.CurrencyType, s.Currency)

		degraded.ScreenMessage = []string{"Payments in " + req.CurrencyType + " are not accepted."}

		return respond(degraded), nil
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

	method, ok := paymentMethods[req.PaymentType]
	if !ok {
		method = defaultPaymentMethod
	}

	res, err := h.b.Payments.Pay(ctx, tok, circulation.Payment{
		UserID:         user.ID,
		Amount:         req.FeeAmount,
		PaymentMethod:  method,
		ServicePointID: s.ServicePointID,
		UserName:       s.Username,
		FeeID:          req.FeeIdentifier,
		TransactionID:  req.TransactionID,
	})
	if err != nil && res.Paid == 0 {
		degraded.ScreenMessage = screenMessage(err)

		return fail(s, degraded, err)
	}

	resp := sip2.FeePaidResponse{
		PaymentAccepted:  true,
		TransactionDate:  h.now(),
		InstitutionID:    s.TenantID,
		PatronIdentifier: req.PatronIdentifier,
		TransactionID:    req.TransactionID,
		ScreenMessage:    []string{"Paid " + circulation.FormatCents(res.Paid) + " " + s.Currency},
	}

	if err != nil {
		h.log.Warn("session %s: payment stopped after %s: %v", s.ID, circulation.FormatCents(res.Paid), err)
	}

	return respond(resp), nil
}
