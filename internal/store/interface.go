// Package store defines the persistence interface for the Shelfmark server.
package store

import (
	"context"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// BookFilter narrows book list queries.
// Zero-value fields are ignored.
type BookFilter struct {
	// Search matches title, author text, or ISBN (case-insensitive substring).
	Search string
	// Author matches the serialized author list (case-insensitive substring).
	Author string
	// TagName restricts to books carrying the exact tag name.
	TagName string
	// LocationID restricts to books at the given shelf location.
	LocationID string
	// PublicOnly restricts to books with show_in_public set.
	PublicOnly bool
}

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error)
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	CreateBooks(ctx context.Context, books []*domain.Book) error
	GetBook(ctx context.Context, id, userID string) (*domain.Book, error)
	GetBookByUserISBN(ctx context.Context, userID, isbn string) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id, userID string) error
	ListBooks(ctx context.Context, userID string, filter BookFilter, params PaginationParams) (*PaginatedResult[*domain.Book], error)
	ListAllBooks(ctx context.Context, userID string) ([]*domain.Book, error)
	CountBooks(ctx context.Context, userID string) (int, error)
	CountPublicBooks(ctx context.Context, userID string) (int, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTagByID(ctx context.Context, tagID string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	FindOrCreateTagByName(ctx context.Context, name string) (*domain.Tag, bool, error)
	ListTagsWithCounts(ctx context.Context, userID string) ([]*domain.Tag, error)
	SetBookTags(ctx context.Context, bookID string, tagIDs []string) error
	GetTagsForBook(ctx context.Context, bookID string) ([]*domain.Tag, error)
	GetTagsForBooks(ctx context.Context, bookIDs []string) (map[string][]*domain.Tag, error)

	// Locations
	CreateLocation(ctx context.Context, loc *domain.Location) error
	GetLocation(ctx context.Context, id, userID string) (*domain.Location, error)
	ListLocations(ctx context.Context, userID string) ([]*domain.Location, error)
	UpdateLocation(ctx context.Context, loc *domain.Location) error
	DeleteLocation(ctx context.Context, id, userID string) error
}
