package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// PublicService serves the read-only public view of a user's catalog.
// Everything it returns is filtered through the owner's visibility
// settings; private users are indistinguishable from missing ones.
type PublicService struct {
	store  store.Store
	logger *slog.Logger
}

// NewPublicService creates a new public catalog service.
func NewPublicService(store store.Store, logger *slog.Logger) *PublicService {
	return &PublicService{
		store:  store,
		logger: logger,
	}
}

// PublicProfile is the public view of a user.
type PublicProfile struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
	BookCount   int    `json:"book_count"`
}

// PublicBook is the visibility-filtered projection of a book.
// Location and timestamps are never exposed here.
type PublicBook struct {
	ID            string   `json:"id"`
	ISBN          string   `json:"isbn,omitempty"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedYear *int     `json:"published_year,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	Description   string   `json:"description,omitempty"`
	IsPinned      bool     `json:"is_pinned"`
	Tags          []string `json:"tags"`
	Condition     string   `json:"condition,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// GetProfile returns the public profile for a username.
func (s *PublicService) GetProfile(ctx context.Context, username string) (*PublicProfile, error) {
	user, err := s.publicUser(ctx, username)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountPublicBooks(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count public books: %w", err)
	}

	return &PublicProfile{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		BookCount:   count,
	}, nil
}

// ListBooks returns a page of a user's public books, projected through
// their visibility settings. The same search and tag filters as the
// private list apply.
func (s *PublicService) ListBooks(
	ctx context.Context,
	username string,
	filter store.BookFilter,
	params store.PaginationParams,
) (*store.PaginatedResult[*PublicBook], error) {
	user, err := s.publicUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := params.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	filter.PublicOnly = true
	result, err := s.store.ListBooks(ctx, user.ID, filter, params)
	if err != nil {
		return nil, fmt.Errorf("list public books: %w", err)
	}

	projected := make([]*PublicBook, 0, len(result.Items))
	for _, book := range result.Items {
		projected = append(projected, projectBook(book, user))
	}

	return &store.PaginatedResult[*PublicBook]{
		Items:      projected,
		Total:      result.Total,
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	}, nil
}

// PublicStats is the public view of catalog statistics.
type PublicStats struct {
	TotalBooks int         `json:"total_books"`
	TopAuthors []NameCount `json:"top_authors"`
	TopTags    []NameCount `json:"top_tags,omitempty"`
}

// GetStats aggregates a user's public books.
// The tags section is withheld entirely when tags are hidden.
func (s *PublicService) GetStats(ctx context.Context, username string) (*PublicStats, error) {
	user, err := s.publicUser(ctx, username)
	if err != nil {
		return nil, err
	}

	books, err := s.store.ListAllBooks(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	public := books[:0:0]
	for _, book := range books {
		if book.ShowInPublic {
			public = append(public, book)
		}
	}

	stats := &PublicStats{
		TotalBooks: len(public),
		TopAuthors: topAuthors(public, topListSize),
	}
	if user.ShowTagsPublic {
		stats.TopTags = topTags(public, topListSize)
	}

	return stats, nil
}

// publicUser resolves a username to a user with a public library.
// Private and unknown users both report not-found.
func (s *PublicService) publicUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsLibraryPublic {
		return nil, domainerrors.NotFound("user not found")
	}
	return user, nil
}

// projectBook applies the owner's visibility toggles to a book.
func projectBook(book *domain.Book, owner *domain.User) *PublicBook {
	p := &PublicBook{
		ID:            book.ID,
		ISBN:          book.ISBN,
		Title:         book.Title,
		Authors:       book.Authors,
		CoverURL:      book.CoverURL,
		Publisher:     book.Publisher,
		PublishedYear: book.PublishedYear,
		PageCount:     book.PageCount,
		Description:   book.Description,
		IsPinned:      book.IsPinned,
		Tags:          []string{},
	}

	if owner.ShowTagsPublic {
		for _, tag := range book.Tags {
			p.Tags = append(p.Tags, tag.Name)
		}
	}
	if owner.ShowConditionPublic {
		p.Condition = string(book.Condition)
	}
	if owner.ShowNotesPublic {
		p.Notes = book.Notes
	}

	return p
}
