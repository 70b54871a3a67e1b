package model

// ShippingMethod selects between home delivery and a GLS parcel shop.
type ShippingMethod string

const (
	ShippingHomeDelivery ShippingMethod = "home_delivery"
	ShippingParcelShop   ShippingMethod = "parcel_shop"
)

// Valid reports whether the method is one of the supported options.
func (m ShippingMethod) Valid() bool {
	return m == ShippingHomeDelivery || m == ShippingParcelShop
}

// PaymentMethod is fixed once the order has been created.
type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// Valid reports whether the method is one of the supported options.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCashOnDelivery
}

// Order is a persisted purchase record. Amounts are in minor currency units.
type Order struct {
	ID                  string         `json:"id"`
	CustomerName        string         `json:"customer_name"`
	CustomerEmail       string         `json:"customer_email"`
	CustomerPhone       string         `json:"customer_phone"`
	ShippingMethod      ShippingMethod `json:"shipping_method"`
	ShippingAddress     string         `json:"shipping_address,omitempty"`
	ShippingCity        string         `json:"shipping_city,omitempty"`
	ShippingZip         string         `json:"shipping_zip,omitempty"`
	ParcelShopID        string         `json:"gls_parcelshop_id,omitempty"`
	ParcelShopName      string         `json:"gls_parcelshop_name,omitempty"`
	ParcelShopAddress   string         `json:"gls_parcelshop_address,omitempty"`
	PaymentMethod       PaymentMethod  `json:"payment_method"`
	Quantity            int            `json:"quantity"`
	UnitPrice           int64          `json:"unit_price"`
	ShippingPrice       int64          `json:"shipping_price"`
	TotalPrice          int64          `json:"total_price"`
	Status              OrderStatus    `json:"status"`
	Notes               string         `json:"notes,omitempty"`
	StripeSessionID     string         `json:"stripe_session_id,omitempty"`
	StripePaymentIntent string         `json:"stripe_payment_intent,omitempty"`
	CreatedDate         string         `json:"created_date,omitempty"`
	PaidAt              string         `json:"paid_at,omitempty"`
}

// OrderUpdate carries the fields a partial update may touch. Nil fields are left as stored.
type OrderUpdate struct {
	Status              *OrderStatus
	StripeSessionID     *string
	StripePaymentIntent *string
	PaidAt              *string
}

// Fields renders the update as a document patch.
func (u OrderUpdate) Fields() map[string]any {
	fields := make(map[string]any, 4)
	if u.Status != nil {
		fields["status"] = string(*u.Status)
	}
	if u.StripeSessionID != nil {
		fields["stripe_session_id"] = *u.StripeSessionID
	}
	if u.StripePaymentIntent != nil {
		fields["stripe_payment_intent"] = *u.StripePaymentIntent
	}
	if u.PaidAt != nil {
		fields["paid_at"] = *u.PaidAt
	}
	return fields
}

// OrderStats is the admin dashboard summary.
type OrderStats struct {
	TotalOrders  int   `json:"totalOrders"`
	Revenue      int64 `json:"revenue"`
	AverageOrder int64 `json:"averageOrder"`
	PendingCount int   `json:"pendingCount"`
}

// ComputeStats summarizes orders. Revenue counts paid and delivered orders only
// and the average is rounded to the nearest unit.
func ComputeStats(orders []Order) OrderStats {
	stats := OrderStats{TotalOrders: len(orders)}
	var revenueOrders int64
	for _, o := range orders {
		switch o.Status {
		case OrderStatusPaid, OrderStatusDelivered:
			stats.Revenue += o.TotalPrice
			revenueOrders++
		case OrderStatusPending:
			stats.PendingCount++
		}
	}
	if revenueOrders > 0 {
		stats.AverageOrder = (stats.Revenue + revenueOrders/2) / revenueOrders
	}
	return stats
}
