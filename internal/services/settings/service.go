package settings

import (
	"context"
	"errors"
	"fmt"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// ErrInvalidSettings wraps rejected settings fields.
var ErrInvalidSettings = errors.New("invalid settings")

// Store persists the restaurant profile document.
type Store interface {
	Get(ctx context.Context) (*models.RestaurantSettings, error)
	Put(ctx context.Context, s *models.RestaurantSettings) error
}

// Service manages the single restaurant profile: contact details and
// working hours.
type Service struct {
	store  Store
	logger *logger.Logger
}

// NewService creates the settings service.
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, logger: log}
}

// Get returns the current profile.
func (s *Service) Get(ctx context.Context) (*models.RestaurantSettings, error) {
	return s.store.Get(ctx)
}

// Put replaces the profile.
func (s *Service) Put(ctx context.Context, profile *models.RestaurantSettings) (*models.RestaurantSettings, error) {
	if profile.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSettings)
	}
	for day, hours := range profile.WorkingHours {
		if !hours.Closed && (hours.Open == "" || hours.Close == "") {
			return nil, fmt.Errorf("%w: %s needs opening hours or the closed flag", ErrInvalidSettings, day)
		}
	}

	if err := s.store.Put(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to store settings: %w", err)
	}

	s.logger.Info("settings_updated", "Restaurant settings updated", "", map[string]interface{}{
		"name": profile.Name,
	})
	return s.store.Get(ctx)
}
