package pricing

import (
	"context"
	"errors"
	"time"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// Delivery pricing, in minor currency units.
const (
	DeliveryFeeAmount     = 40
	FreeDeliveryThreshold = 300
)

// ErrInvalidCoupon is the single rejection returned for any coupon the
// evaluator will not honor. The concrete reason is logged, not exposed:
// the storefront treats unknown, expired, exhausted and below-minimum
// codes identically.
var ErrInvalidCoupon = errors.New("invalid or inapplicable coupon code")

// CouponStore is the persisted coupon set.
type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, couponID string) error
}

// Service evaluates coupon codes against order subtotals.
type Service struct {
	store  CouponStore
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates the coupon evaluator.
func NewService(store CouponStore, log *logger.Logger) *Service {
	return &Service{store: store, logger: log, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Apply validates the code against the subtotal and returns the coupon
// with the discount it grants. Matching is case-insensitive.
func (s *Service) Apply(ctx context.Context, code string, subtotal int64) (*models.Coupon, int64, error) {
	coupon, err := s.store.GetByCode(ctx, code)
	if err != nil {
		s.logger.Debug("coupon_rejected", "Coupon code not found", "", map[string]interface{}{"code": code})
		return nil, 0, ErrInvalidCoupon
	}

	if reason := s.eligibility(coupon, subtotal); reason != "" {
		s.logger.Debug("coupon_rejected", reason, "", map[string]interface{}{"code": coupon.Code})
		return nil, 0, ErrInvalidCoupon
	}

	return coupon, Discount(coupon, subtotal), nil
}

// Redeem counts a successful use of the coupon.
func (s *Service) Redeem(ctx context.Context, couponID string) error {
	return s.store.IncrementUsage(ctx, couponID)
}

func (s *Service) eligibility(c *models.Coupon, subtotal int64) string {
	switch {
	case !c.Active:
		return "Coupon is inactive"
	case s.now().After(c.ExpiresAt):
		return "Coupon has expired"
	case c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit:
		return "Coupon usage limit reached"
	case subtotal < c.MinOrderAmount:
		return "Subtotal below coupon minimum"
	default:
		return ""
	}
}

// Discount computes the amount a coupon takes off the given subtotal.
// Percentage discounts truncate toward zero and respect the per-coupon
// cap; no discount ever exceeds the subtotal itself.
func Discount(c *models.Coupon, subtotal int64) int64 {
	var d int64
	switch c.DiscountType {
	case models.DiscountPercentage:
		d = subtotal * c.DiscountValue / 100
		if c.MaxDiscount != nil && d > *c.MaxDiscount {
			d = *c.MaxDiscount
		}
	case models.DiscountFixed:
		d = c.DiscountValue
	}
	if d > subtotal {
		d = subtotal
	}
	return d
}

// DeliveryFee returns the fee charged on top of the discounted subtotal.
// Orders strictly above the threshold ship free.
func DeliveryFee(discountedSubtotal int64) int64 {
	if discountedSubtotal > FreeDeliveryThreshold {
		return 0
	}
	return DeliveryFeeAmount
}
