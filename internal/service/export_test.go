package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

func TestExportBooks(t *testing.T) {
	s := newTestStore(t)
	books := NewBookService(s, newFakeResolver(), testLogger())
	locations := NewLocationService(s, testLogger())
	user := createTestUser(t, s, "usr-export-00000000000001", "owner@example.com", "owner")
	ctx := context.Background()

	shelf, err := locations.CreateLocation(ctx, user.ID, LocationRequest{Name: "Office"})
	require.NoError(t, err)

	_, err = books.CreateBook(ctx, user.ID, CreateBookRequest{
		Title:         "Multi Author",
		Authors:       []string{"Jane Doe", "John Roe"},
		ISBN:          "9780000000021",
		Publisher:     "Example Press",
		PublishedYear: intPtr(1999),
		PageCount:     intPtr(432),
		LocationID:    shelf.ID,
		Condition:     domain.ConditionVeryGood,
		Notes:         "has a, comma",
		TagNames:      []string{"sf", "favorites"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, books.ExportBooks(ctx, user.ID, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, exportHeader, records[0])

	row := records[1]
	assert.Equal(t, "9780000000021", row[0])
	assert.Equal(t, "Multi Author", row[1])
	assert.Equal(t, `["Jane Doe","John Roe"]`, row[2])
	assert.Equal(t, "Example Press", row[3])
	assert.Equal(t, "1999", row[4])
	assert.Equal(t, "432", row[5])
	assert.Equal(t, "Office", row[6])
	assert.Equal(t, "very_good", row[7])
	assert.Equal(t, "favorites, sf", row[8])
	assert.Equal(t, "has a, comma", row[9])

	added, err := time.Parse(time.RFC3339, row[10])
	require.NoError(t, err, "Added column is a full ISO timestamp")
	assert.False(t, added.IsZero())
}

func TestExportBooks_EmptyCatalog(t *testing.T) {
	s := newTestStore(t)
	books := NewBookService(s, newFakeResolver(), testLogger())
	user := createTestUser(t, s, "usr-export-00000000000002", "empty@example.com", "empty")

	var buf bytes.Buffer
	require.NoError(t, books.ExportBooks(context.Background(), user.ID, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func TestExportBooks_NoAuthors(t *testing.T) {
	s := newTestStore(t)
	books := NewBookService(s, newFakeResolver(), testLogger())
	user := createTestUser(t, s, "usr-export-00000000000003", "bare@example.com", "bare")
	ctx := context.Background()

	_, err := books.CreateBook(ctx, user.ID, CreateBookRequest{Title: "Anonymous Work"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, books.ExportBooks(ctx, user.ID, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "", records[1][2], "never-supplied authors export as an empty cell")
}

func TestExportBooks_EmptyAuthorList(t *testing.T) {
	s := newTestStore(t)
	books := NewBookService(s, newFakeResolver(), testLogger())
	user := createTestUser(t, s, "usr-export-00000000000004", "listed@example.com", "listed")
	ctx := context.Background()

	_, err := books.CreateBook(ctx, user.ID, CreateBookRequest{Title: "Listed Anonymous", Authors: []string{}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, books.ExportBooks(ctx, user.ID, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "[]", records[1][2], "a known-empty author list stays a structured list")
}
