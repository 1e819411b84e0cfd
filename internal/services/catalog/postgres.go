package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storefront-system/internal/database"
	"storefront-system/internal/models"
)

// PostgresStore persists the menu in PostgreSQL.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the menu repository.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// List returns every menu item, grouped by category.
func (r *PostgresStore) List(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Get returns a single menu item.
func (r *PostgresStore) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := scanMenuItem(r.db.QueryRow(ctx, database.GetMenuItemSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}
	return item, nil
}

// Insert stores a new menu item and backfills its timestamps.
func (r *PostgresStore) Insert(ctx context.Context, item *models.MenuItem) error {
	err := r.db.QueryRow(ctx, database.InsertMenuItemSQL,
		item.ID, item.Name, item.Description, item.Price, item.Image,
		item.Category, item.Available, item.PrepMinutes).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// Update replaces every editable field of an item.
func (r *PostgresStore) Update(ctx context.Context, item *models.MenuItem) error {
	_, err := r.db.Pool.Exec(ctx, database.UpdateMenuItemSQL,
		item.ID, item.Name, item.Description, item.Price, item.Image,
		item.Category, item.Available, item.PrepMinutes)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	return nil
}

// SetAvailability flips the availability flag.
func (r *PostgresStore) SetAvailability(ctx context.Context, id string, available bool) error {
	if _, err := r.db.Pool.Exec(ctx, database.SetMenuItemAvailabilitySQL, id, available); err != nil {
		return fmt.Errorf("failed to set availability: %w", err)
	}
	return nil
}

// Delete removes a menu item together with any cart and wishlist rows
// referencing it.
func (r *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Pool.Exec(ctx, database.DeleteMenuItemSQL, id); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

// Categories returns the category list in display order.
func (r *PostgresStore) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, database.ListCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	var item models.MenuItem
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Image,
		&item.Category, &item.Available, &item.PrepMinutes, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
