package model

// CheckoutState is a step of the storefront checkout flow.
type CheckoutState string

const (
	CheckoutEditing      CheckoutState = "editing"
	CheckoutSubmitting   CheckoutState = "submitting"
	CheckoutCompletedCOD CheckoutState = "completed_cod"
	CheckoutRedirecting  CheckoutState = "redirecting_to_payment"
	CheckoutFailed       CheckoutState = "failed"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutEditing:    {CheckoutSubmitting},
	CheckoutSubmitting: {CheckoutCompletedCOD, CheckoutRedirecting, CheckoutFailed},
	CheckoutFailed:     {CheckoutEditing},
}

// CanTransition reports whether the flow may move from s to next.
func (s CheckoutState) CanTransition(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckoutForm is what the shopper submits.
type CheckoutForm struct {
	CheckoutID        string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	ShippingMethod    ShippingMethod
	ShippingAddress   string
	ShippingCity      string
	ShippingZip       string
	ParcelShopID      string
	ParcelShopName    string
	ParcelShopAddress string
	PaymentMethod     PaymentMethod
	Quantity          any
	Notes             string
}

// CheckoutResult is the outcome of a submit. RedirectURL and SessionID are
// set only when the shopper has to continue on the hosted payment page.
type CheckoutResult struct {
	State       CheckoutState
	OrderID     string
	RedirectURL string
	SessionID   string
	Message     string
}

// Confirmation reports whether a returning shopper's payment went through.
type Confirmation struct {
	Paid    bool    `json:"paid"`
	OrderID *string `json:"orderId"`
	Updated bool    `json:"updated"`
}
