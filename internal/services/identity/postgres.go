package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"storefront-system/internal/database"
	"storefront-system/internal/models"
)

// PostgresStore persists users and sessions in PostgreSQL. The address
// book is a JSONB document on the user row.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the identity repository.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertUser stores a new account and backfills its creation timestamp.
func (r *PostgresStore) InsertUser(ctx context.Context, u *models.User) error {
	addresses, err := json.Marshal(u.Addresses)
	if err != nil {
		return fmt.Errorf("failed to marshal addresses: %w", err)
	}
	err = r.db.QueryRow(ctx, database.InsertUserSQL,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Admin, addresses).
		Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the account with the given email, matched
// case-insensitively.
func (r *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, database.GetUserByEmailSQL, email))
}

// GetUserByID returns a single account.
func (r *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, database.GetUserByIDSQL, id))
}

// UpdateAddresses replaces the user's address book.
func (r *PostgresStore) UpdateAddresses(ctx context.Context, userID string, addresses []models.SavedAddress) error {
	doc, err := json.Marshal(addresses)
	if err != nil {
		return fmt.Errorf("failed to marshal addresses: %w", err)
	}
	if _, err := r.db.Pool.Exec(ctx, database.UpdateUserAddressesSQL, userID, doc); err != nil {
		return fmt.Errorf("failed to update addresses: %w", err)
	}
	return nil
}

// InsertSession stores a new session.
func (r *PostgresStore) InsertSession(ctx context.Context, s *models.Session) error {
	if _, err := r.db.Pool.Exec(ctx, database.InsertSessionSQL, s.Token, s.UserID, s.CreatedAt, s.ExpiresAt); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession returns the session behind a token.
func (r *PostgresStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRow(ctx, database.GetSessionSQL, token).
		Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes a session.
func (r *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.Pool.Exec(ctx, database.DeleteSessionSQL, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *PostgresStore) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var addresses []byte
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Admin, &addresses, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addresses, &u.Addresses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal addresses: %w", err)
	}
	return &u, nil
}
