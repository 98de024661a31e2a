package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// makeTestSession creates a domain.Session with sensible defaults for testing.
func makeTestSession(id, userID, tokenHash string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        now.Add(24 * time.Hour),
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        "127.0.0.1",
		UserAgent:        "test-agent/1.0",
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	sess := makeTestSession("ses-1", "usr-1", "hash-abc")
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSession(ctx, "ses-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.UserID != "usr-1" {
		t.Errorf("UserID: got %q", got.UserID)
	}
	if got.RefreshTokenHash != "hash-abc" {
		t.Errorf("RefreshTokenHash: got %q", got.RefreshTokenHash)
	}
	if got.UserAgent != "test-agent/1.0" {
		t.Errorf("UserAgent: got %q", got.UserAgent)
	}
}

func TestGetSessionByRefreshToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	sess := makeTestSession("ses-1", "usr-1", "hash-abc")
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByRefreshToken(ctx, "hash-abc")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.ID != "ses-1" {
		t.Errorf("ID: got %q", got.ID)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "unknown-hash"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown hash, got %v", err)
	}
}

func TestDeleteAllUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")
	mustCreateUser(t, s, "usr-2", "bob@example.com", "bob")

	for i, spec := range []struct{ id, user, hash string }{
		{"ses-1", "usr-1", "h1"},
		{"ses-2", "usr-1", "h2"},
		{"ses-3", "usr-2", "h3"},
	} {
		if err := s.CreateSession(ctx, makeTestSession(spec.id, spec.user, spec.hash)); err != nil {
			t.Fatalf("CreateSession %d: %v", i, err)
		}
	}

	if err := s.DeleteAllUserSessions(ctx, "usr-1"); err != nil {
		t.Fatalf("DeleteAllUserSessions: %v", err)
	}

	mine, err := s.ListUserSessions(ctx, "usr-1")
	if err != nil {
		t.Fatalf("ListUserSessions: %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("expected no sessions for usr-1, got %d", len(mine))
	}

	theirs, err := s.ListUserSessions(ctx, "usr-2")
	if err != nil {
		t.Fatalf("ListUserSessions: %v", err)
	}
	if len(theirs) != 1 {
		t.Errorf("expected 1 session for usr-2, got %d", len(theirs))
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	expired := makeTestSession("ses-old", "usr-1", "h-old")
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	fresh := makeTestSession("ses-new", "usr-1", "h-new")

	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.CreateSession(ctx, fresh); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	if _, err := s.GetSession(ctx, "ses-old"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected expired session gone, got %v", err)
	}
	if _, err := s.GetSession(ctx, "ses-new"); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}
}
