package gatewayerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errRoot = errors.New("root cause")

func TestInternalErrorWrap(t *testing.T) {
	t.Parallel()

	e := CreateGatewayError("AuthTokenManager")
	err := e.Wrap("ResolveAccessToken", "login", errRoot)

	assert.Equal(t, "AuthTokenManager - ResolveAccessToken - login: root cause", err.Error())
	assert.ErrorIs(t, err, errRoot)
}

func TestInternalErrorWrapf(t *testing.T) {
	t.Parallel()

	e := CreateGatewayError("Resend")
	err := e.Wrapf("Resend", "", "no previous message to %s", "resend")

	assert.Equal(t, "Resend - Resend: no previous message to resend", err.Error())
	assert.Equal(t, "no previous message to resend", e.FriendlyMessage())
}

func TestCreateGatewayErrorIsolation(t *testing.T) {
	t.Parallel()

	base := CreateGatewayError("Circulation")
	first := base
	_ = first.Wrap("A", "b", errRoot)

	assert.Nil(t, base.OriginalError)
	assert.Equal(t, "Circulation", base.Error())
}
