package models

import "time"

// User is a registered customer or administrator account.
type User struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	PasswordHash string         `json:"-"`
	Admin        bool           `json:"admin,omitempty"`
	Addresses    []SavedAddress `json:"addresses,omitempty"`
	CreatedAt    time.Time      `json:"created_at,omitempty"`
}

// Actor returns the request actor for this user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name, Admin: u.Admin}
}

// SavedAddress is a labelled address stored on a user profile.
type SavedAddress struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Address
	Default bool `json:"default"`
}

// Session is an opaque login token.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
