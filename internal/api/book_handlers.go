package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns a page of the user's catalog, newest first",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create book",
		Description: "Adds a book to the catalog",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "lookupISBN",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/lookup/{isbn}",
		Summary:     "Look up ISBN",
		Description: "Fetches book metadata for an ISBN without creating anything",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLookupISBN)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Applies a partial update to a book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book from the catalog",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// ListBooksInput contains query parameters for listing books.
type ListBooksInput struct {
	Search   string `query:"search" doc:"Match against title, authors, or ISBN"`
	Author   string `query:"author" doc:"Filter by author name"`
	Tag      string `query:"tag" doc:"Filter by exact tag name"`
	Location string `query:"location" doc:"Filter by shelf location ID"`
	Limit    int    `query:"limit" doc:"Page size (default 100, max 1000)"`
	Cursor   string `query:"cursor" doc:"Opaque cursor from the previous page"`
}

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID            string        `json:"id" doc:"Book ID"`
	ISBN          string        `json:"isbn,omitempty" doc:"Normalized ISBN"`
	Title         string        `json:"title" doc:"Title"`
	Authors       []string      `json:"authors,omitempty" doc:"Authors in order"`
	CoverURL      string        `json:"cover_url,omitempty" doc:"Cover image URL"`
	Publisher     string        `json:"publisher,omitempty" doc:"Publisher"`
	PublishedYear *int          `json:"published_year,omitempty" doc:"Publication year"`
	PageCount     *int          `json:"page_count,omitempty" doc:"Page count"`
	Description   string        `json:"description,omitempty" doc:"Description"`
	LocationID    string        `json:"location_id,omitempty" doc:"Shelf location ID"`
	Condition     string        `json:"condition,omitempty" doc:"Physical condition"`
	Notes         string        `json:"notes,omitempty" doc:"Owner notes"`
	IsPinned      bool          `json:"is_pinned" doc:"Pinned in the catalog"`
	ShowInPublic  bool          `json:"show_in_public" doc:"Visible in the public catalog"`
	Tags          []TagResponse `json:"tags" doc:"Tags on this book"`
	CreatedAt     time.Time     `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time     `json:"updated_at" doc:"Last update time"`
}

// ListBooksResponse contains a page of books.
type ListBooksResponse struct {
	Books      []BookResponse `json:"books" doc:"Books on this page"`
	NextCursor string         `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool           `json:"has_more" doc:"Whether more pages exist"`
	Total      int            `json:"total,omitempty" doc:"Total matching books"`
}

// ListBooksOutput wraps the book list for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookRequest is the request body for adding a book.
type CreateBookRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=500" doc:"Title"`
	Authors       []string `json:"authors,omitempty" doc:"Authors in order"`
	ISBN          string   `json:"isbn,omitempty" validate:"omitempty,max=20" doc:"ISBN, hyphens allowed"`
	CoverURL      string   `json:"cover_url,omitempty" validate:"omitempty,max=1000" doc:"Cover image URL"`
	Publisher     string   `json:"publisher,omitempty" validate:"omitempty,max=200" doc:"Publisher"`
	PublishedYear *int     `json:"published_year,omitempty" validate:"omitempty,gte=0,lte=3000" doc:"Publication year"`
	PageCount     *int     `json:"page_count,omitempty" validate:"omitempty,gte=0" doc:"Page count"`
	Description   string   `json:"description,omitempty" doc:"Description"`
	LocationID    string   `json:"location_id,omitempty" doc:"Shelf location ID"`
	Condition     string   `json:"condition,omitempty" validate:"omitempty,oneof=new like_new very_good good acceptable poor" doc:"Physical condition"`
	Notes         string   `json:"notes,omitempty" validate:"omitempty,max=5000" doc:"Owner notes"`
	TagNames      []string `json:"tag_names,omitempty" doc:"Tags to attach"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest is the request body for updating a book.
// Nil fields are left unchanged; clearing a field means sending its empty value.
type UpdateBookRequest struct {
	Title         *string   `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"Title"`
	Authors       *[]string `json:"authors,omitempty" doc:"Authors in order"`
	ISBN          *string   `json:"isbn,omitempty" validate:"omitempty,max=20" doc:"ISBN"`
	CoverURL      *string   `json:"cover_url,omitempty" validate:"omitempty,max=1000" doc:"Cover image URL"`
	Publisher     *string   `json:"publisher,omitempty" validate:"omitempty,max=200" doc:"Publisher"`
	PublishedYear *int      `json:"published_year,omitempty" validate:"omitempty,gte=0,lte=3000" doc:"Publication year"`
	PageCount     *int      `json:"page_count,omitempty" validate:"omitempty,gte=0" doc:"Page count"`
	Description   *string   `json:"description,omitempty" doc:"Description"`
	LocationID    *string   `json:"location_id,omitempty" doc:"Shelf location ID"`
	Condition     *string   `json:"condition,omitempty" validate:"omitempty,oneof=new like_new very_good good acceptable poor" doc:"Physical condition"`
	Notes         *string   `json:"notes,omitempty" validate:"omitempty,max=5000" doc:"Owner notes"`
	IsPinned      *bool     `json:"is_pinned,omitempty" doc:"Pin in the catalog"`
	ShowInPublic  *bool     `json:"show_in_public,omitempty" doc:"Show in the public catalog"`
	TagNames      *[]string `json:"tag_names,omitempty" doc:"Replaces the tag set wholesale"`
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// LookupISBNInput contains parameters for an ISBN lookup.
type LookupISBNInput struct {
	ISBN string `path:"isbn" doc:"ISBN-10 or ISBN-13, hyphens allowed"`
}

// MetadataResponse contains resolved book metadata.
type MetadataResponse struct {
	ISBN          string   `json:"isbn" doc:"Normalized ISBN"`
	Title         string   `json:"title" doc:"Title"`
	Authors       []string `json:"authors,omitempty" doc:"Authors in order"`
	CoverURL      string   `json:"cover_url,omitempty" doc:"Cover image URL"`
	Publisher     string   `json:"publisher,omitempty" doc:"Publisher"`
	PublishedYear *int     `json:"published_year,omitempty" doc:"Publication year"`
	PageCount     *int     `json:"page_count,omitempty" doc:"Page count"`
	Description   string   `json:"description,omitempty" doc:"Description"`
}

// MetadataOutput wraps the metadata response for Huma.
type MetadataOutput struct {
	Body MetadataResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	filter := store.BookFilter{
		Search:     input.Search,
		Author:     input.Author,
		TagName:    input.Tag,
		LocationID: input.Location,
	}
	params := store.PaginationParams{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	}

	result, err := s.services.Book.ListBooks(ctx, userID, filter, params)
	if err != nil {
		return nil, err
	}

	books := make([]BookResponse, len(result.Items))
	for i, book := range result.Items {
		books[i] = mapBookResponse(book)
	}

	return &ListBooksOutput{Body: ListBooksResponse{
		Books:      books,
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
		Total:      result.Total,
	}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, userID, service.CreateBookRequest{
		Title:         input.Body.Title,
		Authors:       input.Body.Authors,
		ISBN:          input.Body.ISBN,
		CoverURL:      input.Body.CoverURL,
		Publisher:     input.Body.Publisher,
		PublishedYear: input.Body.PublishedYear,
		PageCount:     input.Body.PageCount,
		Description:   input.Body.Description,
		LocationID:    input.Body.LocationID,
		Condition:     domain.Condition(input.Body.Condition),
		Notes:         input.Body.Notes,
		TagNames:      input.Body.TagNames,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.GetBook(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	patch := domain.BookPatch{
		Title:         input.Body.Title,
		Authors:       input.Body.Authors,
		ISBN:          input.Body.ISBN,
		CoverURL:      input.Body.CoverURL,
		Publisher:     input.Body.Publisher,
		PublishedYear: input.Body.PublishedYear,
		PageCount:     input.Body.PageCount,
		Description:   input.Body.Description,
		LocationID:    input.Body.LocationID,
		Notes:         input.Body.Notes,
		IsPinned:      input.Body.IsPinned,
		ShowInPublic:  input.Body.ShowInPublic,
		TagNames:      input.Body.TagNames,
	}
	if input.Body.Condition != nil {
		cond := domain.Condition(*input.Body.Condition)
		patch.Condition = &cond
	}

	book, err := s.services.Book.UpdateBook(ctx, input.ID, userID, patch)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *GetBookInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.DeleteBook(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

func (s *Server) handleLookupISBN(ctx context.Context, input *LookupISBNInput) (*MetadataOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	meta, err := s.services.Book.LookupISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}

	return &MetadataOutput{Body: MetadataResponse{
		ISBN:          meta.ISBN,
		Title:         meta.Title,
		Authors:       meta.Authors,
		CoverURL:      meta.CoverURL,
		Publisher:     meta.Publisher,
		PublishedYear: meta.PublishedYear,
		PageCount:     meta.PageCount,
		Description:   meta.Description,
	}}, nil
}

// === Helpers ===

func mapBookResponse(book *domain.Book) BookResponse {
	tags := make([]TagResponse, len(book.Tags))
	for i, t := range book.Tags {
		tags[i] = mapTagResponse(t)
	}

	return BookResponse{
		ID:            book.ID,
		ISBN:          book.ISBN,
		Title:         book.Title,
		Authors:       book.Authors,
		CoverURL:      book.CoverURL,
		Publisher:     book.Publisher,
		PublishedYear: book.PublishedYear,
		PageCount:     book.PageCount,
		Description:   book.Description,
		LocationID:    book.LocationID,
		Condition:     string(book.Condition),
		Notes:         book.Notes,
		IsPinned:      book.IsPinned,
		ShowInPublic:  book.ShowInPublic,
		Tags:          tags,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}
