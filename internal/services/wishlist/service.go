package wishlist

import (
	"context"
	"errors"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// ErrUnknownItem is returned when saving a dish that is not on the menu.
var ErrUnknownItem = errors.New("menu item not found")

// Store is the persisted wishlist ledger, partitioned by actor key.
type Store interface {
	List(ctx context.Context, actorKey string) ([]models.MenuItem, error)
	Add(ctx context.Context, actorKey, itemID string) error
	Remove(ctx context.Context, actorKey, itemID string) error
	Clear(ctx context.Context, actorKey string) error
}

// CatalogReader resolves wishlist item ids against the live menu.
type CatalogReader interface {
	Get(ctx context.Context, id string) (*models.MenuItem, error)
}

// Service manages per-actor wishlists. Unlike the cart, saving an
// unavailable dish is allowed: the wishlist is where customers park
// things to order later.
type Service struct {
	store   Store
	catalog CatalogReader
	logger  *logger.Logger
}

// NewService creates the wishlist service.
func NewService(store Store, catalog CatalogReader, log *logger.Logger) *Service {
	return &Service{store: store, catalog: catalog, logger: log}
}

// List returns the actor's saved items.
func (s *Service) List(ctx context.Context, actorKey string) ([]models.MenuItem, error) {
	return s.store.List(ctx, actorKey)
}

// Add saves an item. Saving an already-saved item is a no-op.
func (s *Service) Add(ctx context.Context, actorKey, itemID string) error {
	if _, err := s.catalog.Get(ctx, itemID); err != nil {
		return ErrUnknownItem
	}
	return s.store.Add(ctx, actorKey, itemID)
}

// Remove drops an item from the wishlist.
func (s *Service) Remove(ctx context.Context, actorKey, itemID string) error {
	return s.store.Remove(ctx, actorKey, itemID)
}

// Clear empties the wishlist.
func (s *Service) Clear(ctx context.Context, actorKey string) error {
	return s.store.Clear(ctx, actorKey)
}
