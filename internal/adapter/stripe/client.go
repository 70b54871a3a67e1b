package stripe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
)

const (
	metadataOrderID   = "orderId"
	defaultRetryAfter = 5 * time.Second
)

// ErrMissingSecretKey is reported by every call when no secret key is configured.
var ErrMissingSecretKey = domainErrors.Configuration("Missing STRIPE_SECRET_KEY env var")

// TooManyRequestsError represents rate limiting signal from the payment provider.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Gateway exposes hosted checkout session operations.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params model.CheckoutSessionParams) (*model.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*model.CheckoutSession, error)
}

// Client implements Gateway on top of the Stripe API.
type Client struct {
	api    *client.API
	logger *slog.Logger
}

// NewClient builds a Stripe client. An empty secret key yields a client whose
// calls fail with ErrMissingSecretKey. apiURL overrides the API endpoint.
func NewClient(secretKey, apiURL string, logger *slog.Logger) *Client {
	c := &Client{logger: logger}
	if secretKey == "" {
		return c
	}

	var backends *stripeapi.Backends
	if apiURL != "" {
		backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
			URL:               stripeapi.String(apiURL),
			HTTPClient:        &http.Client{Timeout: 10 * time.Second},
			MaxNetworkRetries: stripeapi.Int64(0),
			LeveledLogger:     &stripeapi.LeveledLogger{Level: stripeapi.LevelNull},
		})
		backends = &stripeapi.Backends{API: backend, Connect: backend, Uploads: backend}
	}
	c.api = client.New(secretKey, backends)
	return c
}

// CreateCheckoutSession opens a hosted checkout session in payment mode.
func (c *Client) CreateCheckoutSession(ctx context.Context, p model.CheckoutSessionParams) (*model.CheckoutSession, error) {
	if c.api == nil {
		return nil, ErrMissingSecretKey
	}

	params := &stripeapi.CheckoutSessionParams{
		Params:     stripeapi.Params{Context: ctx},
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		SuccessURL: stripeapi.String(p.SuccessURL),
		CancelURL:  stripeapi.String(p.CancelURL),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripeapi.String(p.CustomerEmail)
	}
	for _, item := range p.LineItems {
		params.LineItems = append(params.LineItems, &stripeapi.CheckoutSessionLineItemParams{
			PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
				Currency: stripeapi.String(p.Currency),
				ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripeapi.String(item.Name),
				},
				UnitAmount: stripeapi.Int64(item.UnitAmount),
			},
			Quantity: stripeapi.Int64(item.Quantity),
		})
	}
	params.AddMetadata(metadataOrderID, p.OrderID)

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.logger.Error("stripe create session failed", slog.String("order_id", p.OrderID), slog.String("error", err.Error()))
		return nil, mapError(err)
	}
	return toSession(session), nil
}

// GetCheckoutSession retrieves a checkout session by id.
func (c *Client) GetCheckoutSession(ctx context.Context, id string) (*model.CheckoutSession, error) {
	if c.api == nil {
		return nil, ErrMissingSecretKey
	}

	params := &stripeapi.CheckoutSessionParams{Params: stripeapi.Params{Context: ctx}}
	session, err := c.api.CheckoutSessions.Get(id, params)
	if err != nil {
		c.logger.Error("stripe get session failed", slog.String("session_id", id), slog.String("error", err.Error()))
		return nil, mapError(err)
	}
	return toSession(session), nil
}

func toSession(s *stripeapi.CheckoutSession) *model.CheckoutSession {
	out := &model.CheckoutSession{
		ID:          s.ID,
		URL:         s.URL,
		Paid:        s.PaymentStatus == stripeapi.CheckoutSessionPaymentStatusPaid,
		OrderID:     s.Metadata[metadataOrderID],
		AmountTotal: s.AmountTotal,
		Currency:    string(s.Currency),
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out
}

func mapError(err error) error {
	var apiErr *stripeapi.Error
	if !errors.As(err, &apiErr) {
		return domainErrors.Provider(err)
	}

	switch {
	case apiErr.Code == stripeapi.ErrorCodeResourceMissing:
		return &domainErrors.Fault{Kind: domainErrors.ErrValidation, Msg: apiErr.Msg, Err: err}
	case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
		return &domainErrors.Fault{Kind: domainErrors.ErrPaymentProvider, Msg: apiErr.Msg, Err: TooManyRequestsError{RetryAfter: defaultRetryAfter}}
	default:
		return &domainErrors.Fault{Kind: domainErrors.ErrPaymentProvider, Msg: apiErr.Msg, Err: err}
	}
}
