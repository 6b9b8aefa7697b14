package sessions

import (
	"errors"

	"github.com/circulation-toolkit/sip2gateway/pkg/gatewayerrors"
)

var (
	// ErrSessionNotFound is returned when a session id is not in the registry.
	ErrSessionNotFound = errors.New("session not found")

	ErrSessionsUseCase = gatewayerrors.CreateGatewayError("SessionsUseCase")
	ErrNothingToResend = ProtocolSequenceError{Gateway: ErrSessionsUseCase}
)

// ProtocolSequenceError is a command that arrived in a state the session cannot
// serve. The transport closes the connection when it sees one.
type ProtocolSequenceError struct {
	Gateway gatewayerrors.InternalError
}

func (e ProtocolSequenceError) Error() string {
	return e.Gateway.Error()
}

func (e ProtocolSequenceError) Wrap(function, call string, err error) error {
	_ = e.Gateway.Wrap(function, call, err)

	return e
}

// WithMessage returns a copy carrying msg as its friendly message.
func (e ProtocolSequenceError) WithMessage(function, msg string) error {
	e.Gateway.Function = function
	e.Gateway.Message = msg

	return e
}
