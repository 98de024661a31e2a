package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, user_id, isbn, title, authors, cover_url, publisher,
	published_year, page_count, description, location_id, condition, notes,
	is_pinned, show_in_public, created_at, updated_at`

// marshalAuthors serializes the ordered author list to JSON text.
// A nil slice maps to NULL so "never supplied" survives the round trip.
func marshalAuthors(authors []string) (sql.NullString, error) {
	if authors == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(authors)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal authors: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
// Tags are left nil; callers attach them separately.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		authors       sql.NullString
		publishedYear sql.NullInt64
		pageCount     sql.NullInt64
		locationID    sql.NullString
		condition     string
		isPinned      int
		showInPublic  int
		createdAt     string
		updatedAt     string
	)

	err := scanner.Scan(
		&b.ID,
		&b.UserID,
		&b.ISBN,
		&b.Title,
		&authors,
		&b.CoverURL,
		&b.Publisher,
		&publishedYear,
		&pageCount,
		&b.Description,
		&locationID,
		&condition,
		&b.Notes,
		&isPinned,
		&showInPublic,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Authors: NULL means never supplied.
	if authors.Valid {
		if err := json.Unmarshal([]byte(authors.String), &b.Authors); err != nil {
			return nil, fmt.Errorf("unmarshal authors for %s: %w", b.ID, err)
		}
		if b.Authors == nil {
			b.Authors = []string{}
		}
	}

	b.PublishedYear = intPtr(publishedYear)
	b.PageCount = intPtr(pageCount)

	if locationID.Valid {
		b.LocationID = locationID.String
	}
	b.Condition = domain.Condition(condition)
	b.IsPinned = isPinned != 0
	b.ShowInPublic = showInPublic != 0

	// Parse timestamps.
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// insertBook runs the book INSERT on the given execer (db or tx).
func insertBook(ctx context.Context, execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, book *domain.Book,
) error {
	authorsVal, err := marshalAuthors(book.Authors)
	if err != nil {
		return err
	}

	_, err = execer.ExecContext(ctx, `
		INSERT INTO books (
			id, user_id, isbn, title, authors, cover_url, publisher,
			published_year, page_count, description, location_id, condition, notes,
			is_pinned, show_in_public, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.UserID,
		book.ISBN,
		book.Title,
		authorsVal,
		book.CoverURL,
		book.Publisher,
		nullIntPtr(book.PublishedYear),
		nullIntPtr(book.PageCount),
		book.Description,
		nullString(book.LocationID),
		string(book.Condition),
		book.Notes,
		boolToInt(book.IsPinned),
		boolToInt(book.ShowInPublic),
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// CreateBook inserts a new book into the database.
// Returns store.ErrAlreadyExists if the user already has a book with the same ISBN.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	return insertBook(ctx, s.db, book)
}

// CreateBooks inserts a batch of books in a single transaction.
// Either every book is persisted or none are. Returns store.ErrAlreadyExists
// if any book collides with an existing (user, isbn) pair.
func (s *Store) CreateBooks(ctx context.Context, books []*domain.Book) error {
	if len(books) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, book := range books {
		if err := insertBook(ctx, tx, book); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetBook retrieves a book by ID, scoped to its owner.
// Returns store.ErrNotFound if the book does not exist or belongs to another user.
func (s *Store) GetBook(ctx context.Context, id, userID string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ? AND user_id = ?`, id, userID)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.Tags, err = s.GetTagsForBook(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookByUserISBN retrieves a user's book by normalized ISBN.
// Returns store.ErrNotFound if the user has no book with that ISBN.
func (s *Store) GetBookByUserISBN(ctx context.Context, userID, isbn string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE user_id = ? AND isbn = ?`, userID, isbn)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// buildBookFilter translates a store.BookFilter into WHERE clauses and args.
func buildBookFilter(userID string, filter store.BookFilter) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		clauses = append(clauses, "(title LIKE ? OR authors LIKE ? OR isbn LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Author != "" {
		clauses = append(clauses, "authors LIKE ?")
		args = append(args, "%"+filter.Author+"%")
	}
	if filter.TagName != "" {
		clauses = append(clauses, `EXISTS (
			SELECT 1 FROM book_tags bt JOIN tags t ON t.id = bt.tag_id
			WHERE bt.book_id = books.id AND t.name = ?)`)
		args = append(args, filter.TagName)
	}
	if filter.LocationID != "" {
		clauses = append(clauses, "location_id = ?")
		args = append(args, filter.LocationID)
	}
	if filter.PublicOnly {
		clauses = append(clauses, "show_in_public = 1")
	}

	return strings.Join(clauses, " AND "), args
}

// ListBooks returns a paginated list of a user's books, newest first.
// Tags are loaded for each returned book.
func (s *Store) ListBooks(ctx context.Context, userID string, filter store.BookFilter, params store.PaginationParams) (*store.PaginatedResult[*domain.Book], error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("validate pagination: %w", err)
	}

	// Decode cursor: format is "created_at|id".
	var cursorTime, cursorID string
	if params.Cursor != "" {
		decoded, err := store.DecodeCursor(params.Cursor)
		if err != nil {
			return nil, fmt.Errorf("decode cursor: %w", err)
		}
		parts := strings.SplitN(decoded, "|", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid cursor format")
		}
		cursorTime = parts[0]
		cursorID = parts[1]
	}

	where, args := buildBookFilter(userID, filter)

	// Count matching books.
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, err
	}

	// Fetch limit+1 rows to determine hasMore.
	query := `SELECT ` + bookColumns + ` FROM books WHERE ` + where
	queryArgs := args
	if cursorTime != "" {
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		queryArgs = append(queryArgs, cursorTime, cursorTime, cursorID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	queryArgs = append(queryArgs, params.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Determine pagination.
	hasMore := len(books) > params.Limit
	if hasMore {
		books = books[:params.Limit]
	}

	if err := s.attachTags(ctx, books); err != nil {
		return nil, err
	}

	// Build next cursor.
	var nextCursor string
	if hasMore && len(books) > 0 {
		last := books[len(books)-1]
		nextCursor = store.EncodeCursor(formatTime(last.CreatedAt) + "|" + last.ID)
	}

	if books == nil {
		books = []*domain.Book{}
	}

	return &store.PaginatedResult[*domain.Book]{
		Items:      books,
		Total:      total,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}, nil
}

// ListAllBooks returns every book owned by the user, newest first, with tags attached.
func (s *Store) ListAllBooks(ctx context.Context, userID string) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

// attachTags loads tags for a batch of books in one query.
func (s *Store) attachTags(ctx context.Context, books []*domain.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}

	tagsByBook, err := s.GetTagsForBooks(ctx, ids)
	if err != nil {
		return err
	}

	for _, b := range books {
		b.Tags = tagsByBook[b.ID]
	}
	return nil
}

// CountBooks returns the number of books owned by the user.
func (s *Store) CountBooks(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// CountPublicBooks returns the number of publicly visible books owned by the user.
func (s *Store) CountPublicBooks(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE user_id = ? AND show_in_public = 1`, userID).Scan(&n)
	return n, err
}

// UpdateBook performs a full row update on an existing book.
// Returns store.ErrNotFound if the book does not exist or belongs to another user.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	authorsVal, err := marshalAuthors(book.Authors)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			isbn = ?,
			title = ?,
			authors = ?,
			cover_url = ?,
			publisher = ?,
			published_year = ?,
			page_count = ?,
			description = ?,
			location_id = ?,
			condition = ?,
			notes = ?,
			is_pinned = ?,
			show_in_public = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		book.ISBN,
		book.Title,
		authorsVal,
		book.CoverURL,
		book.Publisher,
		nullIntPtr(book.PublishedYear),
		nullIntPtr(book.PageCount),
		book.Description,
		nullString(book.LocationID),
		string(book.Condition),
		book.Notes,
		boolToInt(book.IsPinned),
		boolToInt(book.ShowInPublic),
		formatTime(book.UpdatedAt),
		book.ID,
		book.UserID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteBook performs a hard delete of a book, scoped to its owner.
// Tag associations go with it via ON DELETE CASCADE.
// Returns store.ErrNotFound if the book does not exist or belongs to another user.
func (s *Store) DeleteBook(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM books WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
