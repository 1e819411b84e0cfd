package cart

import (
	"context"
	"errors"
	"fmt"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// ErrItemUnavailable is returned when adding a dish that is 86'd or gone.
var ErrItemUnavailable = errors.New("menu item is not available")

// Store is the persisted cart ledger, partitioned by actor key.
type Store interface {
	List(ctx context.Context, actorKey string) ([]models.CartItem, error)
	ItemIDs(ctx context.Context, actorKey string) ([]string, error)
	Upsert(ctx context.Context, actorKey, itemID string, quantity int) error
	SetQuantity(ctx context.Context, actorKey, itemID string, quantity int) error
	Remove(ctx context.Context, actorKey, itemID string) error
	Clear(ctx context.Context, actorKey string) error
}

// CatalogReader resolves cart item ids against the live menu.
type CatalogReader interface {
	Get(ctx context.Context, id string) (*models.MenuItem, error)
}

// Summary is a cart with its derived totals.
type Summary struct {
	Items    []models.CartItem `json:"items"`
	Subtotal int64             `json:"subtotal"`
	Count    int               `json:"count"`
}

// Service manages per-actor carts. Quantities live in the ledger; prices
// always reflect the live menu until checkout freezes them.
type Service struct {
	store   Store
	catalog CatalogReader
	logger  *logger.Logger
}

// NewService creates the cart service.
func NewService(store Store, catalog CatalogReader, log *logger.Logger) *Service {
	return &Service{store: store, catalog: catalog, logger: log}
}

// Get returns the actor's cart with totals.
func (s *Service) Get(ctx context.Context, actorKey string) (*Summary, error) {
	items, err := s.store.List(ctx, actorKey)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Items: items}
	if summary.Items == nil {
		summary.Items = []models.CartItem{}
	}
	for _, item := range items {
		summary.Subtotal += item.Price * int64(item.Quantity)
		summary.Count += item.Quantity
	}
	return summary, nil
}

// Add puts quantity more of an item into the cart. Adding an item already
// present increases its quantity.
func (s *Service) Add(ctx context.Context, actorKey, itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	item, err := s.catalog.Get(ctx, itemID)
	if err != nil {
		return ErrItemUnavailable
	}
	if !item.Available {
		return ErrItemUnavailable
	}

	return s.store.Upsert(ctx, actorKey, itemID, quantity)
}

// SetQuantity pins an item's quantity. Zero or negative removes the item.
func (s *Service) SetQuantity(ctx context.Context, actorKey, itemID string, quantity int) error {
	if quantity <= 0 {
		return s.store.Remove(ctx, actorKey, itemID)
	}
	return s.store.SetQuantity(ctx, actorKey, itemID, quantity)
}

// Remove drops an item from the cart.
func (s *Service) Remove(ctx context.Context, actorKey, itemID string) error {
	return s.store.Remove(ctx, actorKey, itemID)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, actorKey string) error {
	return s.store.Clear(ctx, actorKey)
}

// Snapshot freezes the cart into order lines with current menu prices.
// Every item is re-validated against the live menu: anything 86'd or
// deleted since it was carted fails the snapshot.
func (s *Service) Snapshot(ctx context.Context, actorKey string) ([]models.OrderLine, error) {
	ids, err := s.store.ItemIDs(ctx, actorKey)
	if err != nil {
		return nil, err
	}
	items, err := s.store.List(ctx, actorKey)
	if err != nil {
		return nil, err
	}

	// Rows whose menu item was deleted drop out of the join; surface
	// them instead of silently shrinking the order.
	listed := make(map[string]bool, len(items))
	for _, item := range items {
		listed[item.ID] = true
	}
	for _, id := range ids {
		if !listed[id] {
			return nil, fmt.Errorf("%w: item %s is no longer on the menu", ErrItemUnavailable, id)
		}
	}

	lines := make([]models.OrderLine, 0, len(items))
	for _, item := range items {
		if !item.Available {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, item.Name)
		}
		lines = append(lines, item.Snapshot(item.Quantity))
	}
	return lines, nil
}

// Merge moves a guest cart into a user's cart after login. Quantities of
// overlapping items add up; the guest cart is emptied.
func (s *Service) Merge(ctx context.Context, fromKey, toKey string) error {
	if fromKey == toKey {
		return nil
	}
	items, err := s.store.List(ctx, fromKey)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.store.Upsert(ctx, toKey, item.ID, item.Quantity); err != nil {
			return err
		}
	}
	return s.store.Clear(ctx, fromKey)
}
