package stripe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/chatpack/internal/domain/errors"
	"github.com/polkiloo/chatpack/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("sk_test_123", srv.URL, testLogger())
}

func TestCreateCheckoutSessionSendsLineItemsAndMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "buyer@example.com", r.PostForm.Get("customer_email"))
		assert.Equal(t, "order-1", r.PostForm.Get("metadata[orderId]"))
		assert.Equal(t, "https://shop.example/success?session_id={CHECKOUT_SESSION_ID}", r.PostForm.Get("success_url"))
		assert.Equal(t, "https://shop.example/cancel", r.PostForm.Get("cancel_url"))
		assert.Equal(t, "Chat Pack", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "399000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "3", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "huf", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "Shipping", r.PostForm.Get("line_items[1][price_data][product_data][name]"))
		assert.Equal(t, "99000", r.PostForm.Get("line_items[1][price_data][unit_amount]"))
		assert.Equal(t, "1", r.PostForm.Get("line_items[1][quantity]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1","payment_status":"unpaid","metadata":{"orderId":"order-1"}}`)
	})

	session, err := client.CreateCheckoutSession(context.Background(), model.CheckoutSessionParams{
		Currency:      "huf",
		CustomerEmail: "buyer@example.com",
		OrderID:       "order-1",
		SuccessURL:    "https://shop.example/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "https://shop.example/cancel",
		LineItems: []model.LineItem{
			{Name: "Chat Pack", UnitAmount: 399000, Quantity: 3},
			{Name: "Shipping", UnitAmount: 99000, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", session.URL)
	assert.False(t, session.Paid)
	assert.Equal(t, "order-1", session.OrderID)
}

func TestGetCheckoutSessionMapsPaidSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/checkout/sessions/cs_paid", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cs_paid","object":"checkout.session","payment_status":"paid","metadata":{"orderId":"abc123"},"payment_intent":"pi_1","amount_total":498000,"currency":"huf"}`)
	})

	session, err := client.GetCheckoutSession(context.Background(), "cs_paid")
	require.NoError(t, err)
	assert.True(t, session.Paid)
	assert.Equal(t, "abc123", session.OrderID)
	assert.Equal(t, "pi_1", session.PaymentIntentID)
	assert.Equal(t, int64(498000), session.AmountTotal)
	assert.Equal(t, "huf", session.Currency)
}

func TestGetCheckoutSessionWithoutMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cs_bare","object":"checkout.session","payment_status":"unpaid"}`)
	})

	session, err := client.GetCheckoutSession(context.Background(), "cs_bare")
	require.NoError(t, err)
	assert.False(t, session.Paid)
	assert.Empty(t, session.OrderID)
	assert.Empty(t, session.PaymentIntentID)
}

func TestProviderErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{
			name:    "unknown session",
			status:  http.StatusNotFound,
			body:    `{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such checkout.session: cs_x"}}`,
			kind:    domainErrors.ErrValidation,
			message: "No such checkout.session: cs_x",
		},
		{
			name:    "invalid currency",
			status:  http.StatusBadRequest,
			body:    `{"error":{"type":"invalid_request_error","message":"Invalid currency: xyz"}}`,
			kind:    domainErrors.ErrPaymentProvider,
			message: "Invalid currency: xyz",
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"type":"invalid_request_error","code":"rate_limit","message":"Too many requests"}}`,
			kind:    domainErrors.ErrPaymentProvider,
			message: "Too many requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.GetCheckoutSession(context.Background(), "cs_x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "unexpected kind: %v", err)
			assert.Equal(t, tt.message, err.Error())

			var tm TooManyRequestsError
			assert.Equal(t, tt.status == http.StatusTooManyRequests, errors.As(err, &tm))
		})
	}
}

func TestMissingSecretKey(t *testing.T) {
	client := NewClient("", "", testLogger())

	_, err := client.CreateCheckoutSession(context.Background(), model.CheckoutSessionParams{OrderID: "o"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainErrors.ErrConfiguration))
	assert.Equal(t, "Missing STRIPE_SECRET_KEY env var", err.Error())

	_, err = client.GetCheckoutSession(context.Background(), "cs")
	assert.True(t, errors.Is(err, domainErrors.ErrConfiguration))
}

func TestTransportFailureIsProviderFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient("sk_test_123", url, testLogger())
	_, err := client.GetCheckoutSession(context.Background(), "cs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainErrors.ErrPaymentProvider))
}
