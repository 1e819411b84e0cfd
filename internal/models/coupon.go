package models

import "time"

// DiscountType selects how a coupon's value is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code. Amounts are in minor currency units;
// DiscountValue is a percentage for percentage-type coupons and a flat
// amount for fixed-type coupons.
type Coupon struct {
	ID             string       `json:"id"`
	Code           string       `json:"code"`
	Description    string       `json:"description"`
	DiscountType   DiscountType `json:"discount_type"`
	DiscountValue  int64        `json:"discount_value"`
	MinOrderAmount int64        `json:"min_order_amount"`
	MaxDiscount    *int64       `json:"max_discount,omitempty"`
	ExpiresAt      time.Time    `json:"expires_at"`
	Active         bool         `json:"active"`
	UsageLimit     *int         `json:"usage_limit,omitempty"`
	UsedCount      int          `json:"used_count"`
}
