package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// MetadataResolver looks up book metadata by ISBN.
// Satisfied by openlibrary.Client; tests substitute a fake.
type MetadataResolver interface {
	Resolve(ctx context.Context, isbn string) (*openlibrary.Metadata, error)
}

// BookService orchestrates catalog operations for a user's books.
type BookService struct {
	store    store.Store
	resolver MetadataResolver
	logger   *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, resolver MetadataResolver, logger *slog.Logger) *BookService {
	return &BookService{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// CreateBookRequest contains the data for adding a book to the catalog.
type CreateBookRequest struct {
	Title         string           `json:"title" validate:"required,min=1,max=500"`
	Authors       []string         `json:"authors,omitempty"`
	ISBN          string           `json:"isbn,omitempty" validate:"omitempty,max=20"`
	CoverURL      string           `json:"cover_url,omitempty" validate:"omitempty,max=1000"`
	Publisher     string           `json:"publisher,omitempty" validate:"omitempty,max=200"`
	PublishedYear *int             `json:"published_year,omitempty" validate:"omitempty,gte=0,lte=3000"`
	PageCount     *int             `json:"page_count,omitempty" validate:"omitempty,gte=0"`
	Description   string           `json:"description,omitempty"`
	LocationID    string           `json:"location_id,omitempty"`
	Condition     domain.Condition `json:"condition,omitempty" validate:"omitempty,oneof=new like_new very_good good acceptable poor"`
	Notes         string           `json:"notes,omitempty" validate:"omitempty,max=5000"`
	TagNames      []string         `json:"tag_names,omitempty"`
}

// CreateBook adds a book to the user's catalog. A non-empty ISBN is
// normalized and must be unique within the catalog.
func (s *BookService) CreateBook(ctx context.Context, userID string, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.LocationID != "" {
		if _, err := s.store.GetLocation(ctx, req.LocationID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Validation("location does not exist")
			}
			return nil, fmt.Errorf("check location: %w", err)
		}
	}

	bookID, err := id.Generate("bok")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := domain.NewBook(bookID, userID, req.Title)
	book.ISBN = openlibrary.NormalizeISBN(req.ISBN)
	book.Authors = req.Authors
	book.CoverURL = req.CoverURL
	book.Publisher = req.Publisher
	book.PublishedYear = req.PublishedYear
	book.PageCount = req.PageCount
	book.Description = req.Description
	book.LocationID = req.LocationID
	book.Condition = req.Condition
	book.Notes = req.Notes

	if err := s.store.CreateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExistsf("a book with ISBN %s is already in your catalog", book.ISBN)
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	if len(req.TagNames) > 0 {
		tags, err := s.replaceBookTags(ctx, book.ID, req.TagNames)
		if err != nil {
			return nil, err
		}
		book.Tags = tags
	}

	if s.logger != nil {
		s.logger.Info("Book added",
			"user_id", userID,
			"book_id", book.ID,
			"title", book.Title,
		)
	}

	return book, nil
}

// GetBook returns a single book owned by the user.
func (s *BookService) GetBook(ctx context.Context, bookID, userID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks returns a page of the user's catalog, filtered and ordered
// newest first.
func (s *BookService) ListBooks(
	ctx context.Context,
	userID string,
	filter store.BookFilter,
	params store.PaginationParams,
) (*store.PaginatedResult[*domain.Book], error) {
	if err := params.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	result, err := s.store.ListBooks(ctx, userID, filter, params)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return result, nil
}

// UpdateBook applies a partial update to a book. A TagNames field in the
// patch replaces the book's tag set wholesale.
func (s *BookService) UpdateBook(ctx context.Context, bookID, userID string, patch domain.BookPatch) (*domain.Book, error) {
	if err := validate.Validate(patch); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if patch.LocationID != nil && *patch.LocationID != "" {
		if _, err := s.store.GetLocation(ctx, *patch.LocationID, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.Validation("location does not exist")
			}
			return nil, fmt.Errorf("check location: %w", err)
		}
	}

	patch.Apply(book)
	if patch.ISBN != nil {
		book.ISBN = openlibrary.NormalizeISBN(book.ISBN)
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExistsf("a book with ISBN %s is already in your catalog", book.ISBN)
		}
		return nil, fmt.Errorf("update book: %w", err)
	}

	if patch.TagNames != nil {
		tags, err := s.replaceBookTags(ctx, book.ID, *patch.TagNames)
		if err != nil {
			return nil, err
		}
		book.Tags = tags
	}

	return book, nil
}

// DeleteBook removes a book from the user's catalog.
func (s *BookService) DeleteBook(ctx context.Context, bookID, userID string) error {
	if err := s.store.DeleteBook(ctx, bookID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book not found")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book deleted", "user_id", userID, "book_id", bookID)
	}

	return nil
}

// LookupISBN resolves book metadata without adding anything to the catalog.
func (s *BookService) LookupISBN(ctx context.Context, isbn string) (*openlibrary.Metadata, error) {
	isbn = openlibrary.NormalizeISBN(isbn)
	if isbn == "" {
		return nil, domainerrors.Validation("isbn is required")
	}

	meta, err := s.resolver.Resolve(ctx, isbn)
	if err != nil {
		return nil, domainerrors.NotFoundf("no metadata found for ISBN %s", isbn)
	}
	return meta, nil
}

// replaceBookTags swaps a book's tag set for the named tags, creating
// any that don't exist yet. Names are matched exactly.
func (s *BookService) replaceBookTags(ctx context.Context, bookID string, names []string) ([]*domain.Tag, error) {
	tagIDs := make([]string, 0, len(names))
	tags := make([]*domain.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag, _, err := s.store.FindOrCreateTagByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find or create tag %q: %w", name, err)
		}
		tagIDs = append(tagIDs, tag.ID)
		tags = append(tags, tag)
	}

	if err := s.store.SetBookTags(ctx, bookID, tagIDs); err != nil {
		return nil, fmt.Errorf("set book tags: %w", err)
	}

	return tags, nil
}
