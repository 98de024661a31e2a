package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// ImportResult summarizes a bulk CSV import run.
type ImportResult struct {
	Total      int      `json:"total"`
	Processed  int      `json:"processed"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
}

// importColumns maps the CSV header names the importer understands.
type importColumns struct {
	isbn    int
	title   int
	authors int
}

// ImportBooks runs a bulk import from a CSV stream with a header row.
// Rows are processed in file order and failures are collected per row;
// a bad row never aborts the run. Successfully resolved books are
// persisted in a single transaction after the loop, so a commit failure
// means nothing from this file was added.
func (s *BookService) ImportBooks(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, domainerrors.Validation("invalid CSV file").WithCause(err)
	}
	if len(records) == 0 {
		return nil, domainerrors.Validation("CSV file is empty")
	}

	cols := resolveImportColumns(records[0])
	rows := records[1:]

	result := &ImportResult{
		Total:  len(rows),
		Errors: []string{},
	}

	queue := make([]*domain.Book, 0, len(rows))

	for i, row := range rows {
		rowNum := i + 1
		result.Processed++

		isbn := openlibrary.NormalizeISBN(strings.TrimSpace(field(row, cols.isbn)))
		if isbn == "" {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: No ISBN provided", rowNum))
			continue
		}

		// Duplicate check runs before any metadata lookup.
		_, err := s.store.GetBookByUserISBN(ctx, userID, isbn)
		if err == nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Book with ISBN %s already exists", rowNum, isbn))
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Failed to check for existing book", rowNum))
			if s.logger != nil {
				s.logger.Warn("Import duplicate check failed",
					"user_id", userID,
					"row", rowNum,
					"error", err,
				)
			}
			continue
		}

		bookID, err := id.Generate("bok")
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Failed to create book", rowNum))
			continue
		}

		book := buildImportedBook(ctx, s.resolver, bookID, userID, isbn, row, cols)
		queue = append(queue, book)
		result.Successful++
	}

	if len(queue) > 0 {
		if err := s.store.CreateBooks(ctx, queue); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, domainerrors.Conflict("import contains duplicate ISBNs").WithCause(err)
			}
			return nil, fmt.Errorf("commit imported books: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("CSV import finished",
			"user_id", userID,
			"total", result.Total,
			"successful", result.Successful,
			"failed", result.Failed,
		)
	}

	return result, nil
}

// buildImportedBook constructs one book from a CSV row, enriched with
// resolved metadata when the ISBN is known to the metadata service.
func buildImportedBook(
	ctx context.Context,
	resolver MetadataResolver,
	bookID, userID, isbn string,
	row []string,
	cols importColumns,
) *domain.Book {
	rowTitle := strings.TrimSpace(field(row, cols.title))
	rowAuthor := strings.TrimSpace(field(row, cols.authors))

	meta, err := resolver.Resolve(ctx, isbn)
	if err != nil {
		// Unresolvable ISBNs still import with whatever the row carries.
		title := rowTitle
		if title == "" {
			title = "Unknown"
		}
		book := domain.NewBook(bookID, userID, title)
		book.ISBN = isbn
		if rowAuthor != "" {
			book.Authors = []string{rowAuthor}
		}
		return book
	}

	title := meta.Title
	if title == "" {
		title = rowTitle
	}
	if title == "" {
		title = "Unknown"
	}

	book := domain.NewBook(bookID, userID, title)
	book.ISBN = isbn
	// A resolved book always carries a structured author list, even an
	// empty one; nil is reserved for books whose authors were never
	// supplied at all.
	book.Authors = meta.Authors
	if book.Authors == nil {
		book.Authors = []string{}
	}
	book.CoverURL = meta.CoverURL
	book.Publisher = meta.Publisher
	book.PublishedYear = meta.PublishedYear
	book.PageCount = meta.PageCount
	book.Description = meta.Description
	return book
}

// resolveImportColumns finds the known columns in a header row.
// Missing columns resolve to -1 and read as empty fields.
func resolveImportColumns(header []string) importColumns {
	cols := importColumns{isbn: -1, title: -1, authors: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "ISBN":
			cols.isbn = i
		case "Title":
			cols.title = i
		case "Authors":
			cols.authors = i
		}
	}
	return cols
}

// field reads a column from a row, tolerating short rows and absent columns.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
