package circulation

import (
	"errors"
	"fmt"

	"github.com/circulation-toolkit/sip2gateway/pkg/gatewayerrors"
)

var (
	ErrCirculationUseCase = gatewayerrors.CreateGatewayError("BackendAggregator")
	ErrUpstreamRequest    = UpstreamRequestError{Gateway: ErrCirculationUseCase}

	// ErrInvalidPatron covers a missing, inactive or unidentified user record.
	ErrInvalidPatron = errors.New("invalid patron")
	// ErrItemNotFound is returned when no item matches a barcode.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidAmount is returned for a fee amount that is not a positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNothingToPay is returned when a payment finds no open account to apply to.
	ErrNothingToPay = errors.New("no open account to pay")
)

// UpstreamRequestError is a resource call that failed for reasons other than
// authentication. Status is 0 when no response was received.
type UpstreamRequestError struct {
	Gateway gatewayerrors.InternalError
	Status  int
	// Detail is the first error message of the backend's error body, if any.
	Detail string
}

func (e UpstreamRequestError) Error() string {
	if e.Status == 0 {
		return e.Gateway.Error()
	}

	return fmt.Sprintf("%s (status %d)", e.Gateway.Error(), e.Status)
}

func (e UpstreamRequestError) Unwrap() error {
	return e.Gateway.OriginalError
}

func (e UpstreamRequestError) Wrap(function, call string, err error) error {
	_ = e.Gateway.Wrap(function, call, err)
	e.Gateway.Message = "upstream request failed"

	return e
}

// WithStatus returns a copy carrying the upstream status.
func (e UpstreamRequestError) WithStatus(status int) UpstreamRequestError {
	e.Status = status

	return e
}

// WithDetail returns a copy carrying the backend's own error message.
func (e UpstreamRequestError) WithDetail(detail string) UpstreamRequestError {
	e.Detail = detail

	return e
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var upstream UpstreamRequestError
	if errors.As(err, &upstream) {
		return upstream.Status
	}

	return 0
}

// DetailOf returns the backend's error message carried by err, or "".
func DetailOf(err error) string {
	var upstream UpstreamRequestError
	if errors.As(err, &upstream) {
		return upstream.Detail
	}

	return ""
}
