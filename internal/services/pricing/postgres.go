package pricing

import (
	"context"
	"fmt"

	"storefront-system/internal/database"
	"storefront-system/internal/models"
)

// PostgresStore persists coupons in PostgreSQL.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the coupon repository.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetByCode returns the coupon with the given code, matched
// case-insensitively.
func (r *PostgresStore) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := r.db.QueryRow(ctx, database.GetCouponByCodeSQL, code).Scan(
		&c.ID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue,
		&c.MinOrderAmount, &c.MaxDiscount, &c.ExpiresAt, &c.Active,
		&c.UsageLimit, &c.UsedCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}
	return &c, nil
}

// IncrementUsage bumps the coupon's redemption counter.
func (r *PostgresStore) IncrementUsage(ctx context.Context, couponID string) error {
	if _, err := r.db.Pool.Exec(ctx, database.IncrementCouponUsageSQL, couponID); err != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}
	return nil
}
