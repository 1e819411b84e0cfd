package catalog

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// ErrNotFound is returned for operations referencing an unknown menu item.
var ErrNotFound = errors.New("menu item not found")

// Store is the persisted menu.
type Store interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	Get(ctx context.Context, id string) (*models.MenuItem, error)
	Insert(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, item *models.MenuItem) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]models.Category, error)
}

// Service manages the menu catalog.
type Service struct {
	store  Store
	logger *logger.Logger
}

// NewService creates the catalog service.
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, logger: log}
}

// List returns the full menu, including unavailable items. The storefront
// renders those greyed out rather than hiding them.
func (s *Service) List(ctx context.Context) ([]models.MenuItem, error) {
	return s.store.List(ctx)
}

// Get returns a single menu item.
func (s *Service) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	return s.store.Get(ctx, id)
}

// Categories returns the category list in display order.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.store.Categories(ctx)
}

// Create validates and stores a new menu item, assigning it an id.
func (s *Service) Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item.ID = generateItemID()

	if err := s.store.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to insert menu item: %w", err)
	}

	s.logger.Info("menu_item_created", fmt.Sprintf("Menu item %s created", item.Name), "", map[string]interface{}{
		"item_id":  item.ID,
		"category": item.Category,
		"price":    item.Price,
	})
	return item, nil
}

// Update validates and replaces an existing menu item.
func (s *Service) Update(ctx context.Context, id string, item *models.MenuItem) (*models.MenuItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	item.ID = id

	if err := s.store.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return s.store.Get(ctx, id)
}

// SetAvailability flips the 86'd flag on a menu item.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (*models.MenuItem, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.SetAvailability(ctx, id, available); err != nil {
		return nil, fmt.Errorf("failed to set availability: %w", err)
	}

	s.logger.Info("menu_availability_changed", fmt.Sprintf("Menu item %s availability set to %t", id, available), "", map[string]interface{}{
		"item_id":   id,
		"available": available,
	})
	return s.store.Get(ctx, id)
}

// Delete removes a menu item. Existing order lines keep their frozen
// snapshot of it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

func generateItemID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "itm_unknown"
	}
	return "itm_" + hex.EncodeToString(buf)
}
