package models

import "time"

// NotificationType tags the lifecycle event a notification describes.
type NotificationType string

const (
	NotifyOrderPlaced    NotificationType = "order_placed"
	NotifyOrderUpdated   NotificationType = "order_updated"
	NotifyOrderDelivered NotificationType = "order_delivered"
	NotifyNewOrder       NotificationType = "new_order"
)

// Notification is one entry in the append-only lifecycle feed. Entries
// are mutated only by read-state transitions and are never deleted
// individually; Clear drops the whole feed.
type Notification struct {
	ID           string           `json:"id"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	OrderID      string           `json:"order_id,omitempty"`
	TargetUserID string           `json:"target_user_id,omitempty"`
	ForAdmin     bool             `json:"for_admin,omitempty"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"created_at"`
}

// VisibleTo reports whether the notification belongs in the actor's feed.
// Administrators see admin broadcasts plus anything targeted at them;
// everyone else sees non-admin entries that are untargeted or theirs.
// Untargeted customer notifications are visible to every guest.
func (n Notification) VisibleTo(a Actor) bool {
	if a.Admin {
		return n.ForAdmin || (n.TargetUserID != "" && n.TargetUserID == a.ID)
	}
	return !n.ForAdmin && (n.TargetUserID == "" || n.TargetUserID == a.ID)
}
