// Package gatewayerrors carries the internal error shape shared by the gateway use cases.
package gatewayerrors

import (
	"fmt"
	"strings"
)

// InternalError records where an error happened and a message that is safe
// to surface to operators (and, for some errors, to the terminal screen).
type InternalError struct {
	File          string
	Function      string
	Call          string
	Message       string
	OriginalError error
}

// CreateGatewayError returns an InternalError bound to a component name.
func CreateGatewayError(file string) InternalError {
	return InternalError{File: file}
}

func (e InternalError) Error() string {
	var b strings.Builder

	b.WriteString(e.File)

	if e.Function != "" {
		b.WriteString(" - ")
		b.WriteString(e.Function)
	}

	if e.Call != "" {
		b.WriteString(" - ")
		b.WriteString(e.Call)
	}

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	if e.OriginalError != nil {
		b.WriteString(": ")
		b.WriteString(e.OriginalError.Error())
	}

	return b.String()
}

// Unwrap exposes the original error to errors.Is and errors.As.
func (e InternalError) Unwrap() error {
	return e.OriginalError
}

// FriendlyMessage -.
func (e InternalError) FriendlyMessage() string {
	return e.Message
}

// Wrap fills the location fields and keeps err as the cause.
func (e *InternalError) Wrap(function, call string, err error) error {
	e.Function = function
	e.Call = call
	e.OriginalError = err

	return e
}

// Wrapf is Wrap with a formatted message.
func (e *InternalError) Wrapf(function, call, format string, args ...interface{}) error {
	e.Function = function
	e.Call = call
	e.Message = fmt.Sprintf(format, args...)

	return e
}
