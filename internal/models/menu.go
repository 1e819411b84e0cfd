package models

import (
	"fmt"
	"time"
)

// MenuItem is an orderable dish. Prices are in minor currency units.
type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	Available   bool      `json:"available"`
	PrepMinutes int       `json:"prep_minutes"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Validate checks the fields an administrator may set.
func (m *MenuItem) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(m.Name) > 100 {
		return fmt.Errorf("name must not exceed 100 characters")
	}
	if m.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if m.Category == "" {
		return fmt.Errorf("category is required")
	}
	if m.PrepMinutes <= 0 {
		return fmt.Errorf("preparation time must be positive")
	}
	return nil
}

// Snapshot copies the item into an order line with the given quantity.
func (m *MenuItem) Snapshot(quantity int) OrderLine {
	return OrderLine{
		ItemID:      m.ID,
		Name:        m.Name,
		UnitPrice:   m.Price,
		Quantity:    quantity,
		PrepMinutes: m.PrepMinutes,
	}
}

// Category is a menu category tag.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CartItem is a menu item in a cart together with its quantity. The item
// fields reflect the live catalog; snapshotting happens at checkout.
type CartItem struct {
	MenuItem
	Quantity int `json:"quantity"`
}
