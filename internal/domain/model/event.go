package model

import "time"

// OrderEventType names an order lifecycle event.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventPaid          OrderEventType = "order.paid"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
)

// OrderEvent is published whenever an order is created or changes status.
type OrderEvent struct {
	Type    OrderEventType `json:"type"`
	OrderID string         `json:"order_id"`
	Status  OrderStatus    `json:"status"`
	At      time.Time      `json:"at"`
}
