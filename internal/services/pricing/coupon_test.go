package pricing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

type fakeCouponStore struct {
	coupons map[string]*models.Coupon
	redeems []string
}

func (f *fakeCouponStore) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	for _, c := range f.coupons {
		if strings.EqualFold(c.Code, code) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errors.New("no rows")
}

func (f *fakeCouponStore) IncrementUsage(_ context.Context, couponID string) error {
	f.redeems = append(f.redeems, couponID)
	return nil
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func testCoupons() *fakeCouponStore {
	expiry := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	return &fakeCouponStore{coupons: map[string]*models.Coupon{
		"1": {
			ID: "1", Code: "WELCOME10", DiscountType: models.DiscountPercentage,
			DiscountValue: 10, MinOrderAmount: 200, MaxDiscount: int64Ptr(100),
			ExpiresAt: expiry, Active: true, UsageLimit: intPtr(100), UsedCount: 25,
		},
		"2": {
			ID: "2", Code: "SAVE50", DiscountType: models.DiscountFixed,
			DiscountValue: 50, MinOrderAmount: 300,
			ExpiresAt: expiry, Active: true, UsageLimit: intPtr(200), UsedCount: 89,
		},
	}}
}

func newTestEvaluator(store *fakeCouponStore) *Service {
	return NewService(store, logger.New("pricing-test")).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
}

func TestApplyPercentage(t *testing.T) {
	svc := newTestEvaluator(testCoupons())

	coupon, discount, err := svc.Apply(context.Background(), "WELCOME10", 500)
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", coupon.Code)
	assert.Equal(t, int64(50), discount)
}

func TestApplyPercentageCap(t *testing.T) {
	svc := newTestEvaluator(testCoupons())

	// 10% of 1500 is 150, clamped to the 100 cap.
	_, discount, err := svc.Apply(context.Background(), "WELCOME10", 1500)
	require.NoError(t, err)
	assert.Equal(t, int64(100), discount)
}

func TestApplyFixed(t *testing.T) {
	svc := newTestEvaluator(testCoupons())

	_, discount, err := svc.Apply(context.Background(), "SAVE50", 400)
	require.NoError(t, err)
	assert.Equal(t, int64(50), discount)
}

func TestApplyCaseInsensitive(t *testing.T) {
	svc := newTestEvaluator(testCoupons())

	coupon, _, err := svc.Apply(context.Background(), "welcome10", 500)
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", coupon.Code)
}

func TestApplyRejections(t *testing.T) {
	expired := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mutate   func(*fakeCouponStore)
		code     string
		subtotal int64
	}{
		{"unknown code", nil, "NOSUCH", 500},
		{"below minimum", nil, "WELCOME10", 150},
		{"below fixed minimum", nil, "SAVE50", 250},
		{"inactive", func(f *fakeCouponStore) { f.coupons["1"].Active = false }, "WELCOME10", 500},
		{"expired", func(f *fakeCouponStore) { f.coupons["1"].ExpiresAt = expired }, "WELCOME10", 500},
		{"usage exhausted", func(f *fakeCouponStore) { f.coupons["1"].UsedCount = 100 }, "WELCOME10", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testCoupons()
			if tt.mutate != nil {
				tt.mutate(store)
			}
			svc := newTestEvaluator(store)

			_, _, err := svc.Apply(context.Background(), tt.code, tt.subtotal)
			assert.ErrorIs(t, err, ErrInvalidCoupon)
		})
	}
}

func TestRedeem(t *testing.T) {
	store := testCoupons()
	svc := newTestEvaluator(store)

	require.NoError(t, svc.Redeem(context.Background(), "1"))
	assert.Equal(t, []string{"1"}, store.redeems)
}

func TestDiscountNeverExceedsSubtotal(t *testing.T) {
	c := &models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: 50}
	assert.Equal(t, int64(30), Discount(c, 30))
}

func TestDeliveryFee(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		want     int64
	}{
		{"small order pays the fee", 250, 40},
		{"threshold itself still pays", 300, 40},
		{"above threshold ships free", 350, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeliveryFee(tt.subtotal))
		})
	}
}
