package domain

import "time"

// Condition describes the physical condition of a copy.
type Condition string

const (
	ConditionNew        Condition = "new"
	ConditionLikeNew    Condition = "like_new"
	ConditionVeryGood   Condition = "very_good"
	ConditionGood       Condition = "good"
	ConditionAcceptable Condition = "acceptable"
	ConditionPoor       Condition = "poor"
)

// Book represents a single copy in a user's catalog.
//
// Authors is ordered. A nil slice means authorship was never supplied,
// which is distinct from an empty list; the store preserves that difference.
// PublishedYear and PageCount use pointers for the same reason: absent is
// not the same as zero.
type Book struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	ISBN          string   `json:"isbn,omitempty"` // Normalized: no hyphens or spaces
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedYear *int     `json:"published_year,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	Description   string   `json:"description,omitempty"`

	LocationID string    `json:"location_id,omitempty"`
	Condition  Condition `json:"condition,omitempty"`
	Notes      string    `json:"notes,omitempty"`

	IsPinned     bool `json:"is_pinned"`
	ShowInPublic bool `json:"show_in_public"`

	// Tags is populated on reads; writes go through the tag association API.
	Tags []*Tag `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBook creates a book owned by the given user.
// Books are visible in the owner's public catalog by default; the owner's
// library-level toggle still gates actual exposure.
func NewBook(id, userID, title string) *Book {
	now := time.Now()
	return &Book{
		ID:           id,
		UserID:       userID,
		Title:        title,
		ShowInPublic: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// BookPatch describes a partial update to a book.
// Nil fields are left unchanged; clearing a field means sending its
// empty value explicitly.
type BookPatch struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Authors       *[]string  `json:"authors,omitempty"`
	ISBN          *string    `json:"isbn,omitempty" validate:"omitempty,max=20"`
	CoverURL      *string    `json:"cover_url,omitempty" validate:"omitempty,max=1000"`
	Publisher     *string    `json:"publisher,omitempty" validate:"omitempty,max=200"`
	PublishedYear *int       `json:"published_year,omitempty" validate:"omitempty,gte=0,lte=3000"`
	PageCount     *int       `json:"page_count,omitempty" validate:"omitempty,gte=0"`
	Description   *string    `json:"description,omitempty"`
	LocationID    *string    `json:"location_id,omitempty"`
	Condition     *Condition `json:"condition,omitempty" validate:"omitempty,oneof=new like_new very_good good acceptable poor"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	IsPinned      *bool      `json:"is_pinned,omitempty"`
	ShowInPublic  *bool      `json:"show_in_public,omitempty"`

	// TagNames, when present, replaces the book's tag set wholesale.
	TagNames *[]string `json:"tag_names,omitempty"`
}

// Apply copies the non-nil patch fields onto the book.
// Tag replacement is handled by the service layer, not here.
func (p *BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Authors != nil {
		b.Authors = *p.Authors
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.CoverURL != nil {
		b.CoverURL = *p.CoverURL
	}
	if p.Publisher != nil {
		b.Publisher = *p.Publisher
	}
	if p.PublishedYear != nil {
		b.PublishedYear = p.PublishedYear
	}
	if p.PageCount != nil {
		b.PageCount = p.PageCount
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.LocationID != nil {
		b.LocationID = *p.LocationID
	}
	if p.Condition != nil {
		b.Condition = *p.Condition
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.IsPinned != nil {
		b.IsPinned = *p.IsPinned
	}
	if p.ShowInPublic != nil {
		b.ShowInPublic = *p.ShowInPublic
	}
}
