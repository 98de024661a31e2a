package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Catalog statistics",
		Description: "Aggregates the user's catalog: totals, top authors and tags, locations, recent and pinned books",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCatalogStats)
}

// === DTOs ===

// GetStatsInput has no parameters; auth comes from context.
type GetStatsInput struct{}

// CatalogStatsResponse contains the owner's catalog statistics.
type CatalogStatsResponse struct {
	TotalBooks    int                 `json:"total_books" doc:"Books in the catalog"`
	PublicBooks   int                 `json:"public_books" doc:"Books visible in the public catalog"`
	TotalPages    int                 `json:"total_pages" doc:"Sum of known page counts"`
	TopAuthors    []service.NameCount `json:"top_authors" doc:"Most common authors"`
	TopTags       []service.NameCount `json:"top_tags" doc:"Most used tags"`
	ByLocation    []service.NameCount `json:"by_location" doc:"Book counts per shelf location"`
	RecentlyAdded []BookResponse      `json:"recently_added" doc:"Most recently added books"`
	Pinned        []BookResponse      `json:"pinned" doc:"Pinned books"`
}

// CatalogStatsOutput wraps the stats response for Huma.
type CatalogStatsOutput struct {
	Body CatalogStatsResponse
}

// === Handlers ===

func (s *Server) handleGetCatalogStats(ctx context.Context, _ *GetStatsInput) (*CatalogStatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.GetCatalogStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := make([]BookResponse, len(stats.RecentlyAdded))
	for i, book := range stats.RecentlyAdded {
		recent[i] = mapBookResponse(book)
	}
	pinned := make([]BookResponse, len(stats.Pinned))
	for i, book := range stats.Pinned {
		pinned[i] = mapBookResponse(book)
	}

	return &CatalogStatsOutput{Body: CatalogStatsResponse{
		TotalBooks:    stats.TotalBooks,
		PublicBooks:   stats.PublicBooks,
		TotalPages:    stats.TotalPages,
		TopAuthors:    stats.TopAuthors,
		TopTags:       stats.TopTags,
		ByLocation:    stats.ByLocation,
		RecentlyAdded: recent,
		Pinned:        pinned,
	}}, nil
}
