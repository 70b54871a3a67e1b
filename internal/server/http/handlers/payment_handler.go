package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/server/http/dto"
)

// PaymentHandler serves the hosted checkout session endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// CreateSession handles POST /api/stripe/create-checkout-session.
func (h *PaymentHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := decodeBody(c, &req); err != nil {
		writeError(c, err)
		return
	}

	link, err := h.facade.CreateSession(c.Request.Context(), model.SessionRequest{
		OrderID:       string(req.OrderID),
		Quantity:      req.Quantity,
		CustomerEmail: string(req.CustomerEmail),
		Origin:        resolveOrigin(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// VerifySession handles POST /api/stripe/verify-session.
func (h *PaymentHandler) VerifySession(c *gin.Context) {
	var req dto.VerifySessionRequest
	if err := decodeBody(c, &req); err != nil {
		writeError(c, err)
		return
	}

	verification, err := h.facade.VerifySession(c.Request.Context(), string(req.SessionID))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, verification)
}
