package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/circulation"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
	"github.com/circulation-toolkit/sip2gateway/pkg/sip2"
)

const (
	defaultMaxRenewals = 100

	// Screen messages.
	msgStaffAssistance = "Unable to complete your request. Please see a staff member for assistance."
	msgLoginRequired   = "This terminal is not logged in. Please see a staff member for assistance."
	msgInvalidRequest  = "The request could not be read. Please try again."
	msgInvalidPassword = "Your patron password is not valid. Please see a staff member for assistance."
	msgItemNotFound    = "This item cannot be found. Please see a staff member for assistance."
)

// errInvalidPatronPassword is returned when a required patron PIN does not verify.
var errInvalidPatronPassword = errors.New("invalid patron password")

// base carries what every handler shares.
type base struct {
	b         *Backend
	validate  *validator.Validate
	log       logger.Interface
	now       func() time.Time
	supported func(sip2.CommandType) bool
}

func (h *base) WritesHistory() bool { return true }

// payload returns the typed, validated payload of cmd.
func payload[T any](h *base, cmd sip2.Command) (T, error) {
	req, ok := cmd.Payload.(T)
	if !ok {
		return req, fmt.Errorf("%w: %T", ErrUnexpectedPayload, cmd.Payload)
	}

	if err := h.validate.Struct(req); err != nil {
		return req, err
	}

	return req, nil
}

// screenMessage picks what the terminal shows for err.
func screenMessage(err error) []string {
	var missing auth.MissingCredentialsError

	var validation validator.ValidationErrors

	switch {
	case errors.As(err, &missing):
		return []string{msgLoginRequired}
	case errors.As(err, &validation), errors.Is(err, ErrUnexpectedPayload):
		return []string{msgInvalidRequest}
	case errors.Is(err, errInvalidPatronPassword):
		return []string{msgInvalidPassword}
	case errors.Is(err, circulation.ErrInvalidPatron):
		return []string{circulation.InvalidPatronMessage}
	case errors.Is(err, circulation.ErrItemNotFound):
		return []string{msgItemNotFound}
	}

	if detail := circulation.DetailOf(err); detail != "" {
		return []string{detail}
	}

	return []string{msgStaffAssistance}
}

// authorizePatron looks the patron up and, where the tenant requires it,
// verifies the PIN the terminal sent.
func (h *base) authorizePatron(ctx context.Context, s *entity.Session, tok auth.Token, patronID, pin string) (*circulation.User, error) {
	user, err := h.b.Profiles.GetUserByIdentifier(ctx, tok, patronID)
	if err != nil {
		return nil, err
	}

	if !s.PatronPasswordVerificationRequired {
		return user, nil
	}

	ok, err := h.b.Profiles.VerifyPin(ctx, tok, user.ID, pin)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, errInvalidPatronPassword
	}

	return user, nil
}

func respond(r sip2.Response) Reply {
	return Reply{Response: r}
}

// fail stores the degraded response and returns err.
func fail(s *entity.Session, degraded sip2.Response, err error) (Reply, error) {
	s.ErrorResponse = degraded

	return Reply{}, err
}
