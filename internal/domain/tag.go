package domain

import "time"

// Tag represents a global tag for categorizing books.
// Tags are shared across all users — no ownership model. Name is matched
// exactly; tags are created lazily the first time a name is referenced.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BookCount int       `json:"book_count,omitempty"` // Denormalized count, populated on list queries
	CreatedAt time.Time `json:"created_at"`
}

// BookTag represents the many-to-many relationship between books and tags.
type BookTag struct {
	BookID    string    `json:"book_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
