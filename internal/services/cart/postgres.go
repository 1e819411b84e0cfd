package cart

import (
	"context"
	"fmt"

	"storefront-system/internal/database"
	"storefront-system/internal/models"
)

// PostgresStore persists carts in PostgreSQL.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the cart repository.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// List returns the cart's items joined with their live menu rows, oldest
// addition first.
func (r *PostgresStore) List(ctx context.Context, actorKey string) ([]models.CartItem, error) {
	rows, err := r.db.Query(ctx, database.ListCartItemsSQL, actorKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Image,
			&item.Category, &item.Available, &item.PrepMinutes, &item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ItemIDs returns the raw cart row ids, oldest addition first.
func (r *PostgresStore) ItemIDs(ctx context.Context, actorKey string) ([]string, error) {
	rows, err := r.db.Query(ctx, database.ListCartItemIDsSQL, actorKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart item ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan cart item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Upsert adds quantity to an item, inserting it if absent.
func (r *PostgresStore) Upsert(ctx context.Context, actorKey, itemID string, quantity int) error {
	if _, err := r.db.Pool.Exec(ctx, database.UpsertCartItemSQL, actorKey, itemID, quantity); err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return nil
}

// SetQuantity pins an item's quantity.
func (r *PostgresStore) SetQuantity(ctx context.Context, actorKey, itemID string, quantity int) error {
	if _, err := r.db.Pool.Exec(ctx, database.SetCartItemQuantitySQL, actorKey, itemID, quantity); err != nil {
		return fmt.Errorf("failed to set cart quantity: %w", err)
	}
	return nil
}

// Remove drops an item from the cart.
func (r *PostgresStore) Remove(ctx context.Context, actorKey, itemID string) error {
	if _, err := r.db.Pool.Exec(ctx, database.DeleteCartItemSQL, actorKey, itemID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Clear empties the cart.
func (r *PostgresStore) Clear(ctx context.Context, actorKey string) error {
	if _, err := r.db.Pool.Exec(ctx, database.ClearCartSQL, actorKey); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
