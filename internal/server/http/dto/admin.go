package dto

import "github.com/polkiloo/chatpack/internal/domain/model"

// LoginRequest describes admin credentials.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse carries the issued admin token.
type LoginResponse struct {
	Token string `json:"token"`
}

// StatusRequest is the body of PATCH /api/admin/orders/:id/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// OrdersResponse is the admin order list with dashboard figures.
type OrdersResponse struct {
	Orders []model.Order    `json:"orders"`
	Stats  model.OrderStats `json:"stats"`
}

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status string `json:"status"`
}
