package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// stubResolver serves canned metadata for ISBN lookups in tests.
type stubResolver struct {
	results map[string]*openlibrary.Metadata
}

func (r *stubResolver) Resolve(_ context.Context, isbn string) (*openlibrary.Metadata, error) {
	isbn = openlibrary.NormalizeISBN(isbn)
	if meta, ok := r.results[isbn]; ok {
		return meta, nil
	}
	return nil, openlibrary.ErrNotFound
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api      humatest.TestAPI
	resolver *stubResolver
}

// newTestServer creates a server backed by a throwaway SQLite store.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokenService, err := auth.NewTokenService(
		strings.Repeat("ab", 32),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	resolver := &stubResolver{results: make(map[string]*openlibrary.Metadata)}

	sessionService := service.NewSessionService(st, tokenService, logger)
	services := &Services{
		Auth:     service.NewAuthService(st, tokenService, sessionService, logger),
		Session:  sessionService,
		User:     service.NewUserService(st, logger),
		Book:     service.NewBookService(st, resolver, logger),
		Location: service.NewLocationService(st, logger),
		Tag:      service.NewTagService(st, logger),
		Stats:    service.NewStatsService(st, logger),
		Public:   service.NewPublicService(st, logger),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			CORSOrigins: []string{"*"},
		},
	}

	s := NewServer(cfg, st, services, logger)

	return &testServer{
		Server:   s,
		api:      humatest.Wrap(t, s.api),
		resolver: resolver,
	}
}

// registerUser creates an account and returns the auth payload.
func (ts *testServer) registerUser(t *testing.T, email, username string) AuthResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"username": username,
		"password": "test-password-123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NotEmpty(t, envelope.Data.AccessToken)

	return envelope.Data
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, EnvelopeVersion, envelope.Version)
	require.Equal(t, "healthy", envelope.Data.Status)
	require.Equal(t, "healthy", envelope.Data.Components["database"].Status)
}
