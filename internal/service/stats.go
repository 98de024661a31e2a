package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// topListSize caps the top-authors and top-tags lists.
const topListSize = 10

// recentListSize caps the recently-added list.
const recentListSize = 5

// StatsService aggregates catalog statistics.
type StatsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// NameCount pairs a name with how many books carry it.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CatalogStats is the owner's view of their catalog.
type CatalogStats struct {
	TotalBooks    int            `json:"total_books"`
	PublicBooks   int            `json:"public_books"`
	TotalPages    int            `json:"total_pages"`
	TopAuthors    []NameCount    `json:"top_authors"`
	TopTags       []NameCount    `json:"top_tags"`
	ByLocation    []NameCount    `json:"by_location"`
	RecentlyAdded []*domain.Book `json:"recently_added"`
	Pinned        []*domain.Book `json:"pinned"`
}

// GetCatalogStats aggregates everything in the user's catalog.
func (s *StatsService) GetCatalogStats(ctx context.Context, userID string) (*CatalogStats, error) {
	books, err := s.store.ListAllBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	locations, err := s.store.ListLocations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	stats := &CatalogStats{
		TotalBooks:    len(books),
		TopAuthors:    topAuthors(books, topListSize),
		TopTags:       topTags(books, topListSize),
		ByLocation:    []NameCount{},
		RecentlyAdded: []*domain.Book{},
		Pinned:        []*domain.Book{},
	}

	for _, book := range books {
		if book.ShowInPublic {
			stats.PublicBooks++
		}
		if book.PageCount != nil {
			stats.TotalPages += *book.PageCount
		}
		if book.IsPinned {
			stats.Pinned = append(stats.Pinned, book)
		}
	}

	// Books come back newest first, so the recent list is a prefix.
	for _, book := range books {
		if len(stats.RecentlyAdded) == recentListSize {
			break
		}
		stats.RecentlyAdded = append(stats.RecentlyAdded, book)
	}

	for _, loc := range locations {
		stats.ByLocation = append(stats.ByLocation, NameCount{Name: loc.Name, Count: loc.BookCount})
	}

	return stats, nil
}

// topAuthors counts author occurrences across books.
func topAuthors(books []*domain.Book, limit int) []NameCount {
	counts := make(map[string]int)
	for _, book := range books {
		for _, author := range book.Authors {
			if author != "" {
				counts[author]++
			}
		}
	}
	return topCounts(counts, limit)
}

// topTags counts tag occurrences across books.
func topTags(books []*domain.Book, limit int) []NameCount {
	counts := make(map[string]int)
	for _, book := range books {
		for _, tag := range book.Tags {
			counts[tag.Name]++
		}
	}
	return topCounts(counts, limit)
}

// topCounts sorts a count map descending, names ascending on ties.
func topCounts(counts map[string]int, limit int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
