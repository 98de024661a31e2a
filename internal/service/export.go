package service

import (
	"context"
	"encoding/csv"
	"encoding/json/v2"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// exportHeader is the column layout for CSV exports.
var exportHeader = []string{
	"ISBN", "Title", "Authors", "Publisher", "Published Year",
	"Page Count", "Location", "Condition", "Tags", "Notes", "Added",
}

// ExportBooks streams the user's whole catalog as CSV.
// Authors are serialized as a JSON array so multi-author books survive
// a round trip through spreadsheet software; absent optional fields
// export as empty cells.
func (s *BookService) ExportBooks(ctx context.Context, userID string, w io.Writer) error {
	books, err := s.store.ListAllBooks(ctx, userID)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}

	locations, err := s.store.ListLocations(ctx, userID)
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}
	locationNames := make(map[string]string, len(locations))
	for _, loc := range locations {
		locationNames[loc.ID] = loc.Name
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, book := range books {
		record, err := exportRecord(book, locationNames)
		if err != nil {
			return fmt.Errorf("serialize book %s: %w", book.ID, err)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportRecord flattens one book into a CSV row.
func exportRecord(book *domain.Book, locationNames map[string]string) ([]string, error) {
	// Never-supplied authors export as an empty cell; a known-empty
	// list exports as "[]".
	var authorsCol string
	if book.Authors != nil {
		authorsJSON, err := json.Marshal(book.Authors)
		if err != nil {
			return nil, fmt.Errorf("marshal authors: %w", err)
		}
		authorsCol = string(authorsJSON)
	}

	var year string
	if book.PublishedYear != nil {
		year = strconv.Itoa(*book.PublishedYear)
	}
	var pages string
	if book.PageCount != nil {
		pages = strconv.Itoa(*book.PageCount)
	}

	tags := ""
	for i, tag := range book.Tags {
		if i > 0 {
			tags += ", "
		}
		tags += tag.Name
	}

	return []string{
		book.ISBN,
		book.Title,
		authorsCol,
		book.Publisher,
		year,
		pages,
		locationNames[book.LocationID],
		string(book.Condition),
		tags,
		book.Notes,
		book.CreatedAt.Format(time.RFC3339),
	}, nil
}
