package order

import (
	"context"

	"storefront-system/internal/models"
)

// Store is the persisted order set. Updates carry the whole order; the
// repository rewrites every mutable field rather than patching.
type Store interface {
	Insert(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListByStatus(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error)
	NextSequence(ctx context.Context, idPrefix string) (int, error)
}

// Notifier reacts to lifecycle transitions. Implementations must not
// fail the transition; delivery problems are theirs to log.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *models.Order)
	OrderStatusChanged(ctx context.Context, o *models.Order, old models.OrderStatus)
	EstimateUpdated(ctx context.Context, o *models.Order)
}
