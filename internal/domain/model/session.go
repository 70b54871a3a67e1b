package model

// SessionRequest asks the payment gateway for a hosted checkout session.
type SessionRequest struct {
	OrderID       string
	Quantity      any
	CustomerEmail string
	Origin        string
}

// SessionLink is what the shopper is redirected to.
type SessionLink struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// SessionVerification reports the outcome of a hosted checkout session.
type SessionVerification struct {
	Paid          bool    `json:"paid"`
	OrderID       *string `json:"orderId"`
	PaymentIntent *string `json:"paymentIntent"`
	AmountTotal   *int64  `json:"amountTotal"`
	Currency      *string `json:"currency"`
}

// LineItem is a single priced row of a checkout session.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// CheckoutSessionParams is the provider-neutral description of a session to create.
type CheckoutSessionParams struct {
	Currency      string
	CustomerEmail string
	LineItems     []LineItem
	OrderID       string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession mirrors the provider session fields the storefront reads.
type CheckoutSession struct {
	ID              string
	URL             string
	Paid            bool
	OrderID         string
	PaymentIntentID string
	AmountTotal     int64
	Currency        string
}
