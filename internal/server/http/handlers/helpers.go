package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/server/http/dto"
	"github.com/polkiloo/chatpack/internal/server/http/middleware"
)

const (
	// CheckoutIDHeader identifies a checkout form when the body does not.
	CheckoutIDHeader = "X-Checkout-ID"

	serverErrorMessage = "Server error"
	maxBodyBytes       = 1 << 20
)

// CurrentAdminID extracts authenticated admin identifier from context.
func CurrentAdminID(c *gin.Context) string {
	val, ok := c.Get(middleware.AdminIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrValidation), errors.Is(err, domainErrors.ErrMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidStatus), errors.Is(err, domainErrors.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// messageFor keeps classified messages and hides unclassified internals.
func messageFor(err error) string {
	var fault *domainErrors.Fault
	if errors.As(err, &fault) {
		return fault.Error()
	}
	if statusFor(err) < http.StatusInternalServerError {
		return err.Error()
	}
	return serverErrorMessage
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, dto.ErrorResponse{Error: messageFor(err), RequestID: middleware.GetRequestID(c)})
}

func readBody(c *gin.Context) (dto.Body, error) {
	if c.Request.Body == nil {
		return dto.ParseBody(nil)
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return dto.Body{}, dto.ErrMalformedBody
	}
	return dto.ParseBody(raw)
}

func decodeBody(c *gin.Context, v any) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	return body.Decode(v)
}

// resolveOrigin picks the storefront origin for payment redirect URLs:
// the Origin header, then the forwarded scheme and Host. An empty result
// leaves the default to the payment flow.
func resolveOrigin(c *gin.Context) string {
	if origin := strings.TrimSpace(c.GetHeader("Origin")); origin != "" {
		return origin
	}
	host := strings.TrimSpace(c.Request.Host)
	if host == "" {
		return ""
	}
	proto := strings.TrimSpace(c.GetHeader("X-Forwarded-Proto"))
	if proto == "" {
		proto = "https"
	}
	return proto + "://" + host
}
