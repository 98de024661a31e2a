package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser("usr-1", "ada@example.com", "ada")
	u.DisplayName = "Ada"
	u.Bio = "first editions only"

	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "usr-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.Email != "ada@example.com" {
		t.Errorf("Email: got %q, want %q", got.Email, "ada@example.com")
	}
	if got.Username != "ada" {
		t.Errorf("Username: got %q, want %q", got.Username, "ada")
	}
	if got.DisplayName != "Ada" {
		t.Errorf("DisplayName: got %q, want %q", got.DisplayName, "Ada")
	}
	if got.Bio != "first editions only" {
		t.Errorf("Bio: got %q, want %q", got.Bio, "first editions only")
	}
	if got.PasswordHash == "" {
		t.Error("PasswordHash should round-trip")
	}

	// Visibility defaults should survive the round trip.
	if got.IsLibraryPublic {
		t.Error("IsLibraryPublic should default to false")
	}
	if !got.ShowTagsPublic {
		t.Error("ShowTagsPublic should default to true")
	}
	if got.ShowNotesPublic {
		t.Error("ShowNotesPublic should default to false")
	}
	if !got.ShowConditionPublic {
		t.Error("ShowConditionPublic should default to true")
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "Ada@Example.com", "ada")

	got, err := s.GetUserByEmail(ctx, "ada@example.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "usr-1" {
		t.Errorf("ID: got %q, want usr-1", got.ID)
	}
	// Original casing is preserved.
	if got.Email != "Ada@Example.com" {
		t.Errorf("Email: got %q, want original casing", got.Email)
	}
}

func TestGetUserByUsername_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "Ada")

	got, err := s.GetUserByUsername(ctx, "ADA")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != "usr-1" {
		t.Errorf("ID: got %q, want usr-1", got.ID)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	dup := makeTestUser("usr-2", "ADA@example.com", "other")
	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	dup := makeTestUser("usr-2", "other@example.com", "Ada")
	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateUser_VisibilityToggles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	u.IsLibraryPublic = true
	u.ShowNotesPublic = true
	u.ShowTagsPublic = false
	u.Touch()
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "usr-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !got.IsLibraryPublic || !got.ShowNotesPublic || got.ShowTagsPublic {
		t.Errorf("toggles did not round-trip: %+v", got)
	}
}

func TestDeleteUser_SoftDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	if err := s.DeleteUser(ctx, "usr-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// Reads exclude the soft-deleted row.
	if _, err := s.GetUser(ctx, "usr-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.GetUserByUsername(ctx, "ada"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for username after delete, got %v", err)
	}

	// Deleting again reports not found.
	if err := s.DeleteUser(ctx, "usr-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}

	// The username is free for registration again.
	u2 := makeTestUser("usr-2", "ada@example.com", "ada")
	u2.LastLoginAt = time.Now()
	if err := s.CreateUser(ctx, u2); err != nil {
		t.Fatalf("CreateUser after soft delete: %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
