package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-system/internal/database"
	"storefront-system/internal/models"
)

// PostgresStore persists the restaurant profile as a JSONB document.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the settings repository.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns the profile document.
func (r *PostgresStore) Get(ctx context.Context) (*models.RestaurantSettings, error) {
	var doc []byte
	if err := r.db.QueryRow(ctx, database.GetSettingsSQL).Scan(&doc); err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	var s models.RestaurantSettings
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &s, nil
}

// Put replaces the profile document.
func (r *PostgresStore) Put(ctx context.Context, s *models.RestaurantSettings) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if _, err := r.db.Pool.Exec(ctx, database.PutSettingsSQL, doc); err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}
	return nil
}
