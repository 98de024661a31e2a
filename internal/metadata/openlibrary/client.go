package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// authorFetchTimeout bounds each per-author lookup so one slow author
	// record cannot stall an otherwise complete edition resolution.
	authorFetchTimeout = 5 * time.Second
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Client provides access to the Open Library API for book metadata.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new Open Library client.
// Rate limited to roughly 1 request per second with a small burst, which
// keeps bulk imports well inside Open Library's published limits.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
		logger:      logger,
	}
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// wait blocks until rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}

// NormalizeISBN strips hyphens and spaces from an ISBN. No checksum
// validation is performed; an unknown ISBN simply resolves to not found.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return strings.TrimSpace(isbn)
}

// Resolve looks up book metadata by ISBN. It tries the edition endpoint
// first, then falls back to the search index. Any failure along either
// path reports ErrNotFound: callers only distinguish "got metadata" from
// "could not resolve".
func (c *Client) Resolve(ctx context.Context, isbn string) (*Metadata, error) {
	const op = "resolve"

	isbn = NormalizeISBN(isbn)
	if isbn == "" {
		return nil, wrapError(op, isbn, ErrBadRequest)
	}

	meta, err := c.fetchEdition(ctx, isbn)
	if err == nil {
		return meta, nil
	}

	c.logger.Debug("edition lookup failed, falling back to search",
		"isbn", isbn,
		"error", err,
	)

	meta, err = c.searchByISBN(ctx, isbn)
	if err != nil {
		return nil, wrapError(op, isbn, ErrNotFound)
	}
	return meta, nil
}

// fetchEdition resolves an ISBN via /isbn/{isbn}.json, the richer of the
// two paths: it carries descriptions and per-edition page counts.
func (c *Client) fetchEdition(ctx context.Context, isbn string) (*Metadata, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	editionURL := c.baseURL + "/isbn/" + url.PathEscape(isbn) + ".json"

	c.logger.Debug("fetching edition",
		"isbn", isbn,
		"url", editionURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, editionURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edition request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edition lookup failed: status %d", resp.StatusCode)
	}

	var edition editionResponse
	if err := json.UnmarshalRead(resp.Body, &edition); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	meta := &Metadata{
		ISBN:        isbn,
		Title:       edition.Title,
		Authors:     c.fetchAuthors(ctx, edition.Authors),
		Description: normalizeDescription(edition.Description),
	}

	if len(edition.Covers) > 0 {
		meta.CoverURL = c.coverURL(edition.Covers[0])
	}
	if len(edition.Publishers) > 0 {
		meta.Publisher = edition.Publishers[0]
	}
	if year, ok := extractYear(edition.PublishDate); ok {
		meta.PublishedYear = &year
	}
	if edition.NumberOfPages > 0 {
		pages := edition.NumberOfPages
		meta.PageCount = &pages
	}

	return meta, nil
}

// fetchAuthors resolves author references to display names. A reference
// that cannot be fetched is skipped; one that resolves without a name
// contributes "Unknown". Edition resolution never fails over authors.
func (c *Client) fetchAuthors(ctx context.Context, refs []authorRef) []string {
	if len(refs) == 0 {
		return nil
	}

	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Key == "" {
			continue
		}

		name, err := c.fetchAuthorName(ctx, ref.Key)
		if err != nil {
			c.logger.Debug("skipping unresolvable author",
				"key", ref.Key,
				"error", err,
			)
			continue
		}
		if name == "" {
			name = "Unknown"
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil
	}
	return names
}

// fetchAuthorName fetches a single author record, e.g. /authors/OL23919A.json.
func (c *Client) fetchAuthorName(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, authorFetchTimeout)
	defer cancel()

	if err := c.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	authorURL := c.baseURL + key + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, authorURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("author request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("author lookup failed: status %d", resp.StatusCode)
	}

	var author authorResponse
	if err := json.UnmarshalRead(resp.Body, &author); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	return author.Name, nil
}

// searchByISBN resolves an ISBN via /search.json. The search index is the
// fallback path: author names come inline so no secondary fetches are
// needed, but descriptions are never available there.
func (c *Client) searchByISBN(ctx context.Context, isbn string) (*Metadata, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("isbn", isbn)

	searchURL := c.baseURL + "/search.json?" + params.Encode()

	c.logger.Debug("searching by ISBN",
		"isbn", isbn,
		"url", searchURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var search searchResponse
	if err := json.UnmarshalRead(resp.Body, &search); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if len(search.Docs) == 0 {
		return nil, ErrNotFound
	}

	doc := &search.Docs[0]

	meta := &Metadata{
		ISBN:    isbn,
		Title:   doc.Title,
		Authors: doc.AuthorName,
	}

	if doc.CoverI > 0 {
		meta.CoverURL = c.coverURL(doc.CoverI)
	}
	if len(doc.Publisher) > 0 {
		meta.Publisher = doc.Publisher[0]
	}
	if doc.FirstPublishYear > 0 {
		year := doc.FirstPublishYear
		meta.PublishedYear = &year
	}
	if doc.NumberOfPagesMedian > 0 {
		pages := doc.NumberOfPagesMedian
		meta.PageCount = &pages
	}

	return meta, nil
}

// coverURL builds the large cover image URL for a cover ID.
func (c *Client) coverURL(id int64) string {
	return fmt.Sprintf("%s/covers/id/%d-L.jpg", c.baseURL, id)
}

// extractYear pulls the first four-digit run out of a free-form publish
// date such as "May 1999", "1999-05-01" or "Published in 1999".
func extractYear(publishDate string) (int, bool) {
	match := yearPattern.FindString(publishDate)
	if match == "" {
		return 0, false
	}

	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

// normalizeDescription flattens the two description shapes Open Library
// serves: a plain string, or a typed text object {"type": ..., "value": s}.
func normalizeDescription(desc any) string {
	switch v := desc.(type) {
	case string:
		return v
	case map[string]any:
		if value, ok := v["value"].(string); ok {
			return value
		}
	}
	return ""
}
