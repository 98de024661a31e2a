package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/metadata/openlibrary"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/store/sqlite"
)

// newTestStore opens a throwaway sqlite store.
func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := testLogger()
	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestTokenService builds a token service with a fixed key.
func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	keyHex := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	svc, err := auth.NewTokenService(keyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return svc
}

// createTestUser registers a user directly through the store.
func createTestUser(t *testing.T, s store.Store, id, email, username string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword("test-password-123")
	require.NoError(t, err)

	user := domain.NewUser(id, email, username)
	user.PasswordHash = hash
	user.LastLoginAt = time.Now()
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// fakeResolver is a scriptable MetadataResolver.
// Calls records every ISBN asked for, in order.
type fakeResolver struct {
	Calls   []string
	Results map[string]*openlibrary.Metadata
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{Results: make(map[string]*openlibrary.Metadata)}
}

func (f *fakeResolver) Resolve(ctx context.Context, isbn string) (*openlibrary.Metadata, error) {
	f.Calls = append(f.Calls, isbn)
	if meta, ok := f.Results[isbn]; ok {
		return meta, nil
	}
	return nil, openlibrary.ErrNotFound
}

func intPtr(v int) *int { return &v }
