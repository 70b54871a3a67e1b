package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/server/http/dto"
	"github.com/polkiloo/chatpack/internal/server/http/middleware"
)

// AdminHandler serves the admin console.
type AdminHandler struct {
	facade AdminFacade
	logger *slog.Logger
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{facade: facade, logger: logger}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := decodeBody(c, &req); err != nil {
		writeError(c, err)
		return
	}

	token, err := h.facade.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

// Orders handles GET /api/admin/orders.
func (h *AdminHandler) Orders(c *gin.Context) {
	orders, stats, err := h.facade.Orders(c.Request.Context(), c.Query("status"), c.Query("sort"))
	if err != nil {
		writeError(c, err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	c.JSON(http.StatusOK, dto.OrdersResponse{Orders: orders, Stats: stats})
}

// Order handles GET /api/admin/orders/:id.
func (h *AdminHandler) Order(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// SetStatus handles PATCH /api/admin/orders/:id/status.
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := decodeBody(c, &req); err != nil {
		writeError(c, err)
		return
	}

	order, err := h.facade.SetOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.logger.Warn("status update rejected",
			slog.String("admin", CurrentAdminID(c)),
			slog.String("order_id", c.Param("id")),
			slog.String("status", req.Status),
			slog.String("error", err.Error()),
		)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
