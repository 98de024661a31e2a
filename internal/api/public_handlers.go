package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// Public routes require no authentication. Everything they return is
// filtered through the owner's visibility settings.
func (s *Server) registerPublicRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPublicProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/public/{username}",
		Summary:     "Public profile",
		Description: "Returns the public profile for a user with a public catalog",
		Tags:        []string{"Public"},
	}, s.handleGetPublicProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPublicBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/public/{username}/books",
		Summary:     "Public books",
		Description: "Returns a page of a user's public books",
		Tags:        []string{"Public"},
	}, s.handleListPublicBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPublicStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/public/{username}/stats",
		Summary:     "Public statistics",
		Description: "Aggregates a user's public books",
		Tags:        []string{"Public"},
	}, s.handleGetPublicStats)
}

// === DTOs ===

// PublicProfileInput contains parameters for a public profile request.
type PublicProfileInput struct {
	Username string `path:"username" doc:"Catalog owner's username"`
}

// PublicProfileOutput wraps the public profile for Huma.
type PublicProfileOutput struct {
	Body service.PublicProfile
}

// ListPublicBooksInput contains parameters for listing public books.
type ListPublicBooksInput struct {
	Username string `path:"username" doc:"Catalog owner's username"`
	Search   string `query:"search" doc:"Match against title, authors, or ISBN"`
	Tag      string `query:"tag" doc:"Filter by exact tag name"`
	Limit    int    `query:"limit" doc:"Page size (default 100, max 1000)"`
	Cursor   string `query:"cursor" doc:"Opaque cursor from the previous page"`
}

// ListPublicBooksResponse contains a page of public books.
type ListPublicBooksResponse struct {
	Books      []*service.PublicBook `json:"books" doc:"Public books on this page"`
	NextCursor string                `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool                  `json:"has_more" doc:"Whether more pages exist"`
	Total      int                   `json:"total,omitempty" doc:"Total matching books"`
}

// ListPublicBooksOutput wraps the public book list for Huma.
type ListPublicBooksOutput struct {
	Body ListPublicBooksResponse
}

// PublicStatsOutput wraps the public stats for Huma.
type PublicStatsOutput struct {
	Body service.PublicStats
}

// === Handlers ===

func (s *Server) handleGetPublicProfile(ctx context.Context, input *PublicProfileInput) (*PublicProfileOutput, error) {
	profile, err := s.services.Public.GetProfile(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	return &PublicProfileOutput{Body: *profile}, nil
}

func (s *Server) handleListPublicBooks(ctx context.Context, input *ListPublicBooksInput) (*ListPublicBooksOutput, error) {
	filter := store.BookFilter{
		Search:  input.Search,
		TagName: input.Tag,
	}
	params := store.PaginationParams{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	}

	result, err := s.services.Public.ListBooks(ctx, input.Username, filter, params)
	if err != nil {
		return nil, err
	}

	return &ListPublicBooksOutput{Body: ListPublicBooksResponse{
		Books:      result.Items,
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
		Total:      result.Total,
	}}, nil
}

func (s *Server) handleGetPublicStats(ctx context.Context, input *PublicProfileInput) (*PublicStatsOutput, error) {
	stats, err := s.services.Public.GetStats(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	return &PublicStatsOutput{Body: *stats}, nil
}
