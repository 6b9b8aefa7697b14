package auth

import (
	"fmt"

	"github.com/circulation-toolkit/sip2gateway/pkg/gatewayerrors"
)

var (
	ErrAuthUseCase         = gatewayerrors.CreateGatewayError("AuthTokenManager")
	ErrMissingCredentials  = MissingCredentialsError{Gateway: ErrAuthUseCase}
	ErrUpstreamAuthFailure = UpstreamAuthError{Gateway: ErrAuthUseCase}
)

const missingCredentialsMessage = "access token is missing; login required"

// MissingCredentialsError means there is no usable token and nothing to log in with.
type MissingCredentialsError struct {
	Gateway gatewayerrors.InternalError
}

func (e MissingCredentialsError) Error() string {
	return e.Gateway.Error()
}

func (e MissingCredentialsError) Wrap(function, call string, err error) error {
	_ = e.Gateway.Wrap(function, call, err)
	e.Gateway.Message = missingCredentialsMessage

	return e
}

// UpstreamAuthError is a login or refresh the backend rejected. Status is the
// upstream HTTP status, or 0 when the request never got an answer.
type UpstreamAuthError struct {
	Gateway gatewayerrors.InternalError
	Status  int
}

func (e UpstreamAuthError) Error() string {
	if e.Status == 0 {
		return e.Gateway.Error()
	}

	return fmt.Sprintf("%s (status %d)", e.Gateway.Error(), e.Status)
}

func (e UpstreamAuthError) Wrap(function, call string, err error) error {
	_ = e.Gateway.Wrap(function, call, err)
	e.Gateway.Message = "upstream authentication failed"

	return e
}

// WithStatus returns a copy carrying the upstream status.
func (e UpstreamAuthError) WithStatus(status int) UpstreamAuthError {
	e.Status = status

	return e
}
