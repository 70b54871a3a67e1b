package dto

import (
	"strings"

	"github.com/polkiloo/chatpack/internal/domain/model"
)

// CheckoutRequest is the order form submitted to POST /api/checkout.
type CheckoutRequest struct {
	CheckoutID        string `json:"checkout_id"`
	CustomerName      string `json:"customer_name"`
	CustomerEmail     string `json:"customer_email"`
	CustomerPhone     string `json:"customer_phone"`
	ShippingMethod    string `json:"shipping_method"`
	ShippingAddress   string `json:"shipping_address"`
	ShippingCity      string `json:"shipping_city"`
	ShippingZip       string `json:"shipping_zip"`
	ParcelShopID      string `json:"gls_parcelshop_id"`
	ParcelShopName    string `json:"gls_parcelshop_name"`
	ParcelShopAddress string `json:"gls_parcelshop_address"`
	PaymentMethod     string `json:"payment_method"`
	Quantity          any    `json:"quantity"`
	Notes             string `json:"notes"`
}

var (
	shippingAliases = map[string]model.ShippingMethod{
		"gls_parcelshop": model.ShippingParcelShop,
		"parcelshop":     model.ShippingParcelShop,
	}
	paymentAliases = map[string]model.PaymentMethod{
		"cod": model.PaymentCashOnDelivery,
	}
)

// ToForm converts the request into the checkout form, resolving method aliases.
func (r CheckoutRequest) ToForm() model.CheckoutForm {
	shipping := model.ShippingMethod(strings.TrimSpace(r.ShippingMethod))
	if alias, ok := shippingAliases[string(shipping)]; ok {
		shipping = alias
	}
	payment := model.PaymentMethod(strings.TrimSpace(r.PaymentMethod))
	if alias, ok := paymentAliases[string(payment)]; ok {
		payment = alias
	}

	return model.CheckoutForm{
		CheckoutID:        strings.TrimSpace(r.CheckoutID),
		CustomerName:      r.CustomerName,
		CustomerEmail:     r.CustomerEmail,
		CustomerPhone:     r.CustomerPhone,
		ShippingMethod:    shipping,
		ShippingAddress:   r.ShippingAddress,
		ShippingCity:      r.ShippingCity,
		ShippingZip:       r.ShippingZip,
		ParcelShopID:      r.ParcelShopID,
		ParcelShopName:    r.ParcelShopName,
		ParcelShopAddress: r.ParcelShopAddress,
		PaymentMethod:     payment,
		Quantity:          r.Quantity,
		Notes:             r.Notes,
	}
}

// CheckoutResponse reports a finished submit.
type CheckoutResponse struct {
	State     string `json:"state"`
	OrderID   string `json:"orderId"`
	URL       string `json:"url,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}

// CheckoutErrorResponse reports a failed submit and the state the form is left in.
type CheckoutErrorResponse struct {
	Error   string `json:"error"`
	State   string `json:"state"`
	OrderID string `json:"orderId,omitempty"`
}

// ConfirmRequest is the body of POST /api/checkout/confirm.
type ConfirmRequest struct {
	SessionID FlexString `json:"sessionId"`
}
