package handlers

import (
	"context"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

// PaymentFacade exposes hosted checkout session operations.
type PaymentFacade interface {
	CreateSession(ctx context.Context, req model.SessionRequest) (*model.SessionLink, error)
	VerifySession(ctx context.Context, sessionID string) (*model.SessionVerification, error)
}

// CheckoutFacade runs the order form flow.
type CheckoutFacade interface {
	Submit(ctx context.Context, form model.CheckoutForm, origin string) (*model.CheckoutResult, error)
	ConfirmPayment(ctx context.Context, sessionID string) (*model.Confirmation, error)
}

// ReviewFacade provides storefront reviews.
type ReviewFacade interface {
	CreateReview(ctx context.Context, author string, rating int, comment string) (*model.Review, error)
	Reviews(ctx context.Context) ([]model.Review, float64, error)
}

// AdminFacade covers the admin console.
type AdminFacade interface {
	Login(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (string, error)
	IsAuthorized(ctx context.Context, uid string) (bool, error)
	Orders(ctx context.Context, statusFilter, sort string) ([]model.Order, model.OrderStats, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	SetOrderStatus(ctx context.Context, id, status string) (*model.Order, error)
}

// HealthFacade reports dependency readiness.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	PaymentFacade
	CheckoutFacade
	ReviewFacade
	AdminFacade
	HealthFacade
}
