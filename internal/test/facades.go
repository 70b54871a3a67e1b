package test

import (
	"context"
	"sync"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

// PaymentFacadeStub provides controllable behaviour for payment endpoints.
type PaymentFacadeStub struct {
	CreateFn func(context.Context, model.SessionRequest) (*model.SessionLink, error)
	VerifyFn func(context.Context, string) (*model.SessionVerification, error)
}

// CreateSession delegates to provided function or returns a fixed link.
func (s PaymentFacadeStub) CreateSession(ctx context.Context, req model.SessionRequest) (*model.SessionLink, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &model.SessionLink{URL: "https://checkout.stripe.test/cs_test_1", SessionID: "cs_test_1"}, nil
}

// VerifySession delegates to provided function or reports an unpaid session.
func (s PaymentFacadeStub) VerifySession(ctx context.Context, sessionID string) (*model.SessionVerification, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, sessionID)
	}
	return &model.SessionVerification{}, nil
}

// CheckoutFacadeStub simulates the order form flow.
type CheckoutFacadeStub struct {
	SubmitFn  func(context.Context, model.CheckoutForm, string) (*model.CheckoutResult, error)
	ConfirmFn func(context.Context, string) (*model.Confirmation, error)

	mu    sync.Mutex
	Forms []model.CheckoutForm
}

// Submit records the form and delegates or completes as cash on delivery.
func (s *CheckoutFacadeStub) Submit(ctx context.Context, form model.CheckoutForm, origin string) (*model.CheckoutResult, error) {
	s.mu.Lock()
	s.Forms = append(s.Forms, form)
	s.mu.Unlock()
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, form, origin)
	}
	return &model.CheckoutResult{State: model.CheckoutCompletedCOD, OrderID: "order-1", Message: "ok"}, nil
}

// ConfirmPayment delegates or reports an unpaid session.
func (s *CheckoutFacadeStub) ConfirmPayment(ctx context.Context, sessionID string) (*model.Confirmation, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, sessionID)
	}
	return &model.Confirmation{}, nil
}

// Submitted returns a copy of recorded forms.
func (s *CheckoutFacadeStub) Submitted() []model.CheckoutForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CheckoutForm(nil), s.Forms...)
}

// ReviewFacadeStub simulates review operations.
type ReviewFacadeStub struct {
	CreateFn func(context.Context, string, int, string) (*model.Review, error)
	ListFn   func(context.Context) ([]model.Review, float64, error)
}

// CreateReview delegates or echoes the review back as approved.
func (s ReviewFacadeStub) CreateReview(ctx context.Context, author string, rating int, comment string) (*model.Review, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, author, rating, comment)
	}
	return &model.Review{ID: "review-1", AuthorName: author, Rating: rating, Comment: comment, IsApproved: true}, nil
}

// Reviews delegates or returns no reviews with the default rating.
func (s ReviewFacadeStub) Reviews(ctx context.Context) ([]model.Review, float64, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, 5, nil
}

// AdminFacadeStub simulates admin console operations. Tokens follow
// StrategyStub: "token-<uid>".
type AdminFacadeStub struct {
	LoginFn      func(context.Context, string, string) (string, error)
	AuthorizedFn func(context.Context, string) (bool, error)
	OrdersFn     func(context.Context, string, string) ([]model.Order, model.OrderStats, error)
	OrderFn      func(context.Context, string) (*model.Order, error)
	SetStatusFn  func(context.Context, string, string) (*model.Order, error)
	Strategy     StrategyStub
}

// Login delegates or issues a token for uid "admin-1".
func (s AdminFacadeStub) Login(ctx context.Context, login, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, login, password)
	}
	return s.Strategy.IssueToken("admin-1")
}

// ParseToken resolves tokens through the embedded strategy stub.
func (s AdminFacadeStub) ParseToken(token string) (string, error) {
	return s.Strategy.ParseToken(token)
}

// IsAuthorized delegates or authorizes any non-empty uid.
func (s AdminFacadeStub) IsAuthorized(ctx context.Context, uid string) (bool, error) {
	if s.AuthorizedFn != nil {
		return s.AuthorizedFn(ctx, uid)
	}
	return uid != "", nil
}

// Orders delegates or returns a single pending order.
func (s AdminFacadeStub) Orders(ctx context.Context, statusFilter, sort string) ([]model.Order, model.OrderStats, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, statusFilter, sort)
	}
	orders := []model.Order{{ID: "order-1", Status: model.OrderStatusPending, TotalPrice: 498000}}
	return orders, model.ComputeStats(orders), nil
}

// Order delegates or returns a pending order with the requested id.
func (s AdminFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending}, nil
}

// SetOrderStatus delegates or returns the order in the requested status.
func (s AdminFacadeStub) SetOrderStatus(ctx context.Context, id, status string) (*model.Order, error) {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, id, status)
	}
	return &model.Order{ID: id, Status: model.OrderStatus(status)}, nil
}

// HealthFacadeStub reports configured readiness.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// StorefrontFacadeStub aggregates every facade stub.
type StorefrontFacadeStub struct {
	PaymentFacadeStub
	*CheckoutFacadeStub
	ReviewFacadeStub
	AdminFacadeStub
	HealthFacadeStub
}

// NewStorefrontFacadeStub returns a stub with default behaviour everywhere.
func NewStorefrontFacadeStub() *StorefrontFacadeStub {
	return &StorefrontFacadeStub{CheckoutFacadeStub: &CheckoutFacadeStub{}}
}
