package notification

import (
	"context"
	"fmt"

	"storefront-system/internal/database"
	"storefront-system/internal/models"
)

// PostgresStore persists the notification feed in PostgreSQL.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the notification repository.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert appends an entry to the feed.
func (r *PostgresStore) Insert(ctx context.Context, n *models.Notification) error {
	_, err := r.db.Pool.Exec(ctx, database.InsertNotificationSQL,
		n.ID, n.Type, n.Title, n.Message, n.OrderID, n.TargetUserID, n.ForAdmin, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// List returns the whole feed, newest first.
func (r *PostgresStore) List(ctx context.Context) ([]models.Notification, error) {
	rows, err := r.db.Query(ctx, database.ListNotificationsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.OrderID, &n.TargetUserID, &n.ForAdmin, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead marks one entry as read.
func (r *PostgresStore) MarkRead(ctx context.Context, id string) error {
	if _, err := r.db.Pool.Exec(ctx, database.MarkNotificationReadSQL, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkManyRead marks the given entries as read.
func (r *PostgresStore) MarkManyRead(ctx context.Context, ids []string) error {
	if _, err := r.db.Pool.Exec(ctx, database.MarkNotificationsReadSQL, ids); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Delete drops the given entries from the feed.
func (r *PostgresStore) Delete(ctx context.Context, ids []string) error {
	if _, err := r.db.Pool.Exec(ctx, database.DeleteNotificationsSQL, ids); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	return nil
}
