package models

import "time"

// OrderEvent is the message published to the order events exchange on
// every lifecycle transition. The notification subscriber renders it for
// the console; the durable notification feed lives in the database.
type OrderEvent struct {
	OrderID           string           `json:"order_id"`
	Type              NotificationType `json:"type"`
	OldStatus         OrderStatus      `json:"old_status,omitempty"`
	NewStatus         OrderStatus      `json:"new_status,omitempty"`
	CustomerName      string           `json:"customer_name,omitempty"`
	TotalAmount       int64            `json:"total_amount,omitempty"`
	EstimatedDelivery *time.Time       `json:"estimated_delivery,omitempty"`
	Timestamp         time.Time        `json:"timestamp"`
}
