package domain

import "time"

// Location is a user-defined shelf location ("Office shelf B", "Attic box 3").
// Locations are scoped to their owner. Deleting a location detaches its
// books; it never deletes them.
type Location struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BookCount   int       `json:"book_count,omitempty"` // Denormalized count, populated on list queries
	CreatedAt   time.Time `json:"created_at"`
}

// NewLocation creates a location owned by the given user.
func NewLocation(id, userID, name string) *Location {
	return &Location{
		ID:        id,
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}
