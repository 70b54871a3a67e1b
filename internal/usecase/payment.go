package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/polkiloo/chatpack/internal/adapter/stripe"
	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
	"github.com/polkiloo/chatpack/internal/pricing"
)

const (
	// DefaultOrigin is used when a request carries no origin hints.
	DefaultOrigin = "http://localhost:5173"

	shippingItemName = "Shipping"
)

// PaymentUseCase opens and verifies hosted checkout sessions.
type PaymentUseCase struct {
	gateway stripe.Gateway
	pricing *pricing.Engine
	logger  *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(gateway stripe.Gateway, engine *pricing.Engine, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{gateway: gateway, pricing: engine, logger: logger}
}

// CreateSession prices the order and opens a hosted checkout session for it.
// Totals below the currency floor are rejected before the provider is called.
func (u *PaymentUseCase) CreateSession(ctx context.Context, req model.SessionRequest) (*model.SessionLink, error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, domainErrors.Validation("Missing orderId")
	}

	quote, err := u.pricing.Quote(req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := u.pricing.CheckChargeable(quote); err != nil {
		return nil, err
	}

	origin := strings.TrimRight(strings.TrimSpace(req.Origin), "/")
	if origin == "" {
		origin = DefaultOrigin
	}

	u.logger.Info("creating checkout session",
		slog.String("order_id", orderID),
		slog.String("currency", quote.Currency),
		slog.Int64("unit", quote.UnitMinor),
		slog.Int64("shipping", quote.ShippingMinor),
		slog.Int("quantity", quote.Quantity),
		slog.Int64("total", quote.Total),
	)

	session, err := u.gateway.CreateCheckoutSession(ctx, model.CheckoutSessionParams{
		Currency:      quote.Currency,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		OrderID:       orderID,
		SuccessURL:    origin + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     origin + "/cancel",
		LineItems: []model.LineItem{
			{Name: quote.ProductName, UnitAmount: quote.UnitMinor, Quantity: int64(quote.Quantity)},
			{Name: shippingItemName, UnitAmount: quote.ShippingMinor, Quantity: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	return &model.SessionLink{URL: session.URL, SessionID: session.ID}, nil
}

// VerifySession reports the payment outcome of a session. Absent provider
// values come back as nil.
func (u *PaymentUseCase) VerifySession(ctx context.Context, sessionID string) (*model.SessionVerification, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domainErrors.Validation("Missing sessionId")
	}

	session, err := u.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := &model.SessionVerification{Paid: session.Paid}
	if session.OrderID != "" {
		out.OrderID = &session.OrderID
	}
	if session.PaymentIntentID != "" {
		out.PaymentIntent = &session.PaymentIntentID
	}
	if session.AmountTotal != 0 {
		out.AmountTotal = &session.AmountTotal
	}
	if session.Currency != "" {
		out.Currency = &session.Currency
	}
	return out, nil
}
