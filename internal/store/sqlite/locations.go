package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// locationColumns is the ordered list of columns selected in location queries.
// Must match the scan order in scanLocation.
const locationColumns = `id, user_id, name, description, created_at`

// scanLocation scans a sql.Row (or sql.Rows via its Scan method) into a domain.Location.
func scanLocation(scanner interface{ Scan(dest ...any) error }) (*domain.Location, error) {
	var l domain.Location

	var createdAt string

	err := scanner.Scan(
		&l.ID,
		&l.UserID,
		&l.Name,
		&l.Description,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// CreateLocation inserts a new shelf location into the database.
func (s *Store) CreateLocation(ctx context.Context, loc *domain.Location) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, user_id, name, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		loc.ID,
		loc.UserID,
		loc.Name,
		loc.Description,
		formatTime(loc.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetLocation retrieves a location by ID, scoped to its owner.
// Returns store.ErrNotFound if the location does not exist or belongs to another user.
func (s *Store) GetLocation(ctx context.Context, id, userID string) (*domain.Location, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE id = ? AND user_id = ?`, id, userID)

	l, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListLocations returns the user's locations ordered by name, with BookCount
// reflecting how many books sit at each.
func (s *Store) ListLocations(ctx context.Context, userID string) ([]*domain.Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.user_id, l.name, l.description, l.created_at,
			COUNT(b.id) AS book_count
		FROM locations l
		LEFT JOIN books b ON b.location_id = l.id
		WHERE l.user_id = ?
		GROUP BY l.id, l.user_id, l.name, l.description, l.created_at
		ORDER BY l.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		var l domain.Location
		var createdAt string
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &createdAt, &l.BookCount); err != nil {
			return nil, err
		}
		l.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if locations == nil {
		locations = []*domain.Location{}
	}

	return locations, nil
}

// UpdateLocation performs a full row update on an existing location.
// Returns store.ErrNotFound if the location does not exist or belongs to another user.
func (s *Store) UpdateLocation(ctx context.Context, loc *domain.Location) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE locations SET name = ?, description = ?
		WHERE id = ? AND user_id = ?`,
		loc.Name,
		loc.Description,
		loc.ID,
		loc.UserID,
	)
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

// DeleteLocation deletes a location, scoped to its owner.
// Books at the location are detached (location set to NULL by the schema),
// never deleted.
// Returns store.ErrNotFound if the location does not exist or belongs to another user.
func (s *Store) DeleteLocation(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM locations WHERE id = ? AND user_id = ?`, id, userID)
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
