package app

import (
	"context"

	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/usecase"
)

// HealthChecker reports whether the order store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade exposes use cases to the HTTP layer and the reconciler.
type StorefrontFacade struct {
	payments *usecase.PaymentUseCase
	checkout *usecase.CheckoutUseCase
	reviews  *usecase.ReviewUseCase
	admin    *usecase.AdminUseCase
	health   HealthChecker
}

func NewStorefrontFacade(
	payments *usecase.PaymentUseCase,
	checkout *usecase.CheckoutUseCase,
	reviews *usecase.ReviewUseCase,
	admin *usecase.AdminUseCase,
	health HealthChecker,
) *StorefrontFacade {
	return &StorefrontFacade{payments: payments, checkout: checkout, reviews: reviews, admin: admin, health: health}
}

func (f *StorefrontFacade) CreateSession(ctx context.Context, req model.SessionRequest) (*model.SessionLink, error) {
	return f.payments.CreateSession(ctx, req)
}

func (f *StorefrontFacade) VerifySession(ctx context.Context, sessionID string) (*model.SessionVerification, error) {
	return f.payments.VerifySession(ctx, sessionID)
}

func (f *StorefrontFacade) Submit(ctx context.Context, form model.CheckoutForm, origin string) (*model.CheckoutResult, error) {
	return f.checkout.Submit(ctx, form, origin)
}

func (f *StorefrontFacade) ConfirmPayment(ctx context.Context, sessionID string) (*model.Confirmation, error) {
	return f.checkout.Confirm(ctx, sessionID)
}

func (f *StorefrontFacade) PendingPayments(ctx context.Context, limit int) ([]model.Order, error) {
	return f.checkout.PendingPayments(ctx, limit)
}

func (f *StorefrontFacade) CreateReview(ctx context.Context, author string, rating int, comment string) (*model.Review, error) {
	return f.reviews.Create(ctx, author, rating, comment)
}

func (f *StorefrontFacade) Reviews(ctx context.Context) ([]model.Review, float64, error) {
	return f.reviews.Approved(ctx)
}

func (f *StorefrontFacade) Login(ctx context.Context, login, password string) (string, error) {
	return f.admin.Login(ctx, login, password)
}

func (f *StorefrontFacade) ParseToken(token string) (string, error) {
	return f.admin.ParseToken(token)
}

func (f *StorefrontFacade) IsAuthorized(ctx context.Context, uid string) (bool, error) {
	return f.admin.IsAuthorized(ctx, uid)
}

func (f *StorefrontFacade) Orders(ctx context.Context, statusFilter, sort string) ([]model.Order, model.OrderStats, error) {
	return f.admin.Orders(ctx, statusFilter, sort)
}

func (f *StorefrontFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.admin.Order(ctx, id)
}

func (f *StorefrontFacade) SetOrderStatus(ctx context.Context, id, status string) (*model.Order, error) {
	return f.admin.SetStatus(ctx, id, status)
}

func (f *StorefrontFacade) EnsureAdmin(ctx context.Context, login, password string) error {
	return f.admin.EnsureAdmin(ctx, login, password)
}

func (f *StorefrontFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
