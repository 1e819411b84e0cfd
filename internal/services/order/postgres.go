package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storefront-system/internal/database"
	"storefront-system/internal/models"
)

// PostgresStore persists orders in PostgreSQL. Lines are written together
// with the order in one transaction; updates rewrite every mutable field.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the order repository.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert appends a new order and its lines to the order set.
func (r *PostgresStore) Insert(ctx context.Context, o *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, database.InsertOrderSQL,
		o.ID, o.UserID, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		o.TotalAmount, o.Status, o.PaymentMethod, o.CouponCode, o.Discount, o.Notes,
		o.DeliveryAddress.Street, o.DeliveryAddress.City, o.DeliveryAddress.State, o.DeliveryAddress.ZipCode,
		o.EstimatedMinutes, o.EstimatedDelivery, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range o.Lines {
		_, err = tx.Exec(ctx, database.InsertOrderLineSQL,
			o.ID, line.ItemID, line.Name, line.UnitPrice, line.Quantity, line.PrepMinutes)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Get returns a single order with its lines.
func (r *PostgresStore) Get(ctx context.Context, id string) (*models.Order, error) {
	row := r.db.QueryRow(ctx, database.GetOrderSQL, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := r.attachLines(ctx, []*models.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// Update rewrites the mutable fields of an order.
func (r *PostgresStore) Update(ctx context.Context, o *models.Order) error {
	_, err := r.db.Pool.Exec(ctx, database.UpdateOrderSQL,
		o.ID, o.Status, o.EstimatedMinutes, o.EstimatedDelivery, o.DeliveredAt)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// List returns all orders, newest first.
func (r *PostgresStore) List(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, database.ListOrdersSQL)
}

// ListByUser returns the orders owned by the given user id. An empty id
// selects guest orders.
func (r *PostgresStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, database.ListOrdersByUserSQL, userID)
}

// ListByStatus returns orders in any of the given statuses, newest first.
func (r *PostgresStore) ListByStatus(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return r.list(ctx, database.ListOrdersByStatusSQL, values)
}

// NextSequence returns the next daily order sequence for the given id
// prefix pattern.
func (r *PostgresStore) NextSequence(ctx context.Context, idPrefix string) (int, error) {
	var seq int
	if err := r.db.QueryRow(ctx, database.NextOrderSequenceSQL, idPrefix).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to query order sequence: %w", err)
	}
	return seq, nil
}

func (r *PostgresStore) list(ctx context.Context, sql string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}

	result := make([]models.Order, len(orders))
	for i, o := range orders {
		result[i] = *o
	}
	return result, nil
}

func (r *PostgresStore) attachLines(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	rows, err := r.db.Query(ctx, database.ListOrderLinesSQL, ids)
	if err != nil {
		return fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var line models.OrderLine
		if err := rows.Scan(&orderID, &line.ItemID, &line.Name, &line.UnitPrice, &line.Quantity, &line.PrepMinutes); err != nil {
			return fmt.Errorf("failed to scan order line: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&o.TotalAmount, &o.Status, &o.PaymentMethod, &o.CouponCode, &o.Discount, &o.Notes,
		&o.DeliveryAddress.Street, &o.DeliveryAddress.City, &o.DeliveryAddress.State, &o.DeliveryAddress.ZipCode,
		&o.EstimatedMinutes, &o.EstimatedDelivery, &o.CreatedAt, &o.DeliveredAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
