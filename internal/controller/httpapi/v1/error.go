package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/circulation-toolkit/sip2gateway/pkg/gatewayerrors"
)

type response struct {
	Error   string `json:"error,omitempty" example:"message"`
	Message string `json:"message,omitempty" example:"message"`
}

func ErrorResponse(c *gin.Context, err error) {
	var validatorErr validator.ValidationErrors

	switch {
	case errors.As(err, &validatorErr):
		msg := validatorErr.Error()
		c.AbortWithStatusJSON(http.StatusBadRequest, response{Error: msg, Message: msg})
	case friendlyMessage(err) != "":
		msg := friendlyMessage(err)
		c.AbortWithStatusJSON(http.StatusBadGateway, response{Error: msg, Message: msg})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, response{Error: "general error", Message: err.Error()})
	}
}

// friendlyMessage returns the operator message of an InternalError in err's chain.
func friendlyMessage(err error) string {
	var internalErr gatewayerrors.InternalError
	if errors.As(err, &internalErr) {
		return internalErr.FriendlyMessage()
	}

	var internalPtr *gatewayerrors.InternalError
	if errors.As(err, &internalPtr) {
		return internalPtr.FriendlyMessage()
	}

	return ""
}
