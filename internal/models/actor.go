package models

// GuestKey is the partition key shared by all anonymous visitors.
const GuestKey = "guest"

// Actor identifies who is driving a request: a registered user, an
// administrator, or (zero value) an anonymous guest. It is the partition
// key for carts, wishlists, order visibility and notification filtering.
type Actor struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin,omitempty"`
}

// Guest returns the anonymous actor.
func Guest() Actor { return Actor{} }

// IsGuest reports whether the actor carries no identity.
func (a Actor) IsGuest() bool { return a.ID == "" }

// Key returns the partition key for the actor's per-user state.
func (a Actor) Key() string {
	if a.ID == "" {
		return GuestKey
	}
	return a.ID
}
