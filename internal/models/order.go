package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// OrderStatus represents the status of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out-for-delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// statusFlow is the linear progression of an order. Cancellation is an
// escape hatch from any non-terminal state and is not part of the flow.
var statusFlow = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
}

// NextStatus returns the unique successor of the given status in the
// linear flow. The second return value is false for terminal states and
// unknown statuses.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	for i, status := range statusFlow {
		if status == s && i < len(statusFlow)-1 {
			return statusFlow[i+1], true
		}
	}
	return "", false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Display returns the human-readable form of the status.
func (s OrderStatus) Display() string {
	return strings.ReplaceAll(string(s), "-", " ")
}

// PaymentMethod is the payment option chosen at checkout.
type PaymentMethod string

const (
	PaymentUPI    PaymentMethod = "upi"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
	PaymentCOD    PaymentMethod = "cod"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentUPI, PaymentCard, PaymentWallet, PaymentCOD:
		return true
	}
	return false
}

// Address is a delivery address snapshot captured at checkout.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Validate checks that the required address fields are present.
func (a *Address) Validate() error {
	if a.Street == "" {
		return fmt.Errorf("address street is required")
	}
	if a.City == "" {
		return fmt.Errorf("address city is required")
	}
	return nil
}

// CustomerInfo holds the contact fields captured at checkout. They are a
// snapshot, independent of any live user record.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks the customer contact fields.
func (c *CustomerInfo) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("customer name is required")
	}
	if len(c.Name) > 100 {
		return fmt.Errorf("customer name must not exceed 100 characters")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return fmt.Errorf("customer email is invalid")
		}
	}
	if c.Phone == "" {
		return fmt.Errorf("customer phone is required")
	}
	return nil
}

// OrderLine is a menu item snapshot plus a quantity. Lines are copied at
// checkout time; later catalog edits never change historical orders.
type OrderLine struct {
	ItemID      string `json:"item_id"`
	Name        string `json:"name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	PrepMinutes int    `json:"prep_minutes"`
}

// Subtotal returns unit price times quantity in minor currency units.
func (l OrderLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Order is a customer order. TotalAmount is frozen at creation; the only
// fields mutated afterwards are Status, DeliveredAt, EstimatedMinutes and
// EstimatedDelivery.
type Order struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id,omitempty"`
	Customer          CustomerInfo  `json:"customer"`
	Lines             []OrderLine   `json:"lines"`
	TotalAmount       int64         `json:"total_amount"`
	DeliveryAddress   Address       `json:"delivery_address"`
	Status            OrderStatus   `json:"status"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	CouponCode        string        `json:"coupon_code,omitempty"`
	Discount          int64         `json:"discount,omitempty"`
	Notes             string        `json:"notes,omitempty"`
	EstimatedMinutes  int           `json:"estimated_minutes"`
	EstimatedDelivery time.Time     `json:"estimated_delivery"`
	CreatedAt         time.Time     `json:"created_at"`
	DeliveredAt       *time.Time    `json:"delivered_at,omitempty"`
}

// Subtotal returns the sum of line subtotals before any discount.
func (o *Order) Subtotal() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Subtotal()
	}
	return total
}

// GenerateOrderID generates an order id in the format ORD_YYYYMMDD_NNN.
func GenerateOrderID(date time.Time, sequence int) string {
	return fmt.Sprintf("ORD_%s_%03d", date.Format("20060102"), sequence)
}
