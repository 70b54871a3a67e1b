package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/server/http/dto"
)

// CheckoutHandler serves the order form and the success page confirmation.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Submit handles POST /api/checkout.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := decodeBody(c, &req); err != nil {
		c.JSON(statusFor(err), dto.CheckoutErrorResponse{Error: messageFor(err), State: string(model.CheckoutEditing)})
		return
	}

	form := req.ToForm()
	if form.CheckoutID == "" {
		form.CheckoutID = strings.TrimSpace(c.GetHeader(CheckoutIDHeader))
	}

	result, err := h.facade.Submit(c.Request.Context(), form, resolveOrigin(c))
	if err != nil {
		resp := dto.CheckoutErrorResponse{Error: messageFor(err), State: string(model.CheckoutEditing)}
		if result != nil {
			resp.State = string(result.State)
			resp.OrderID = result.OrderID
			if result.Message != "" {
				resp.Error = result.Message
			}
		}
		c.JSON(statusFor(err), resp)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		State:     string(result.State),
		OrderID:   result.OrderID,
		URL:       result.RedirectURL,
		SessionID: result.SessionID,
		Message:   result.Message,
	})
}

// Confirm handles POST /api/checkout/confirm.
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := decodeBody(c, &req); err != nil {
		writeError(c, err)
		return
	}

	confirmation, err := h.facade.ConfirmPayment(c.Request.Context(), string(req.SessionID))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, confirmation)
}
