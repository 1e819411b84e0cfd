package wishlist

import (
	"context"
	"fmt"

	"storefront-system/internal/database"
	"storefront-system/internal/models"
)

// PostgresStore persists wishlists in PostgreSQL.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the wishlist repository.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// List returns the saved items joined with their live menu rows, oldest
// addition first.
func (r *PostgresStore) List(ctx context.Context, actorKey string) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.ListWishlistItemsSQL, actorKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Image,
			&item.Category, &item.Available, &item.PrepMinutes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add saves an item; duplicates are ignored.
func (r *PostgresStore) Add(ctx context.Context, actorKey, itemID string) error {
	if _, err := r.db.Pool.Exec(ctx, database.InsertWishlistItemSQL, actorKey, itemID); err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

// Remove drops an item from the wishlist.
func (r *PostgresStore) Remove(ctx context.Context, actorKey, itemID string) error {
	if _, err := r.db.Pool.Exec(ctx, database.DeleteWishlistItemSQL, actorKey, itemID); err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}

// Clear empties the wishlist.
func (r *PostgresStore) Clear(ctx context.Context, actorKey string) error {
	if _, err := r.db.Pool.Exec(ctx, database.ClearWishlistSQL, actorKey); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}
