package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// makeTestTag creates a domain.Tag with sensible defaults for testing.
func makeTestTag(id, name string) *domain.Tag {
	return &domain.Tag{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestTag("tag-1", "slow burn")

	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTagByID(ctx, "tag-1")
	if err != nil {
		t.Fatalf("GetTagByID: %v", err)
	}

	if got.ID != tag.ID {
		t.Errorf("ID: got %q, want %q", got.ID, tag.ID)
	}
	if got.Name != tag.Name {
		t.Errorf("Name: got %q, want %q", got.Name, tag.Name)
	}
	if got.CreatedAt.Unix() != tag.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, tag.CreatedAt)
	}
}

func TestCreateTag_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTag(ctx, makeTestTag("tag-1", "sci-fi")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	err := s.CreateTag(ctx, makeTestTag("tag-2", "sci-fi"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// Name matching is exact: different case is a different tag.
	if err := s.CreateTag(ctx, makeTestTag("tag-3", "Sci-Fi")); err != nil {
		t.Fatalf("CreateTag different case: %v", err)
	}
}

func TestFindOrCreateTagByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// First call creates.
	tag, created, err := s.FindOrCreateTagByName(ctx, "found family")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName: %v", err)
	}
	if !created {
		t.Error("expected created=true on first call")
	}
	if tag.Name != "found family" {
		t.Errorf("Name: got %q", tag.Name)
	}

	// Second call reuses.
	again, created, err := s.FindOrCreateTagByName(ctx, "found family")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName second call: %v", err)
	}
	if created {
		t.Error("expected created=false on reuse")
	}
	if again.ID != tag.ID {
		t.Errorf("reuse returned different tag: %q vs %q", again.ID, tag.ID)
	}
}

func TestSetBookTags_ReplacesSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")
	b := makeTestBook("bok-1", "usr-1", "Dune")
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	a, _, _ := s.FindOrCreateTagByName(ctx, "sci-fi")
	bTag, _, _ := s.FindOrCreateTagByName(ctx, "classics")
	c, _, _ := s.FindOrCreateTagByName(ctx, "desert")

	if err := s.SetBookTags(ctx, "bok-1", []string{a.ID, bTag.ID}); err != nil {
		t.Fatalf("SetBookTags: %v", err)
	}
	if err := s.SetBookTags(ctx, "bok-1", []string{c.ID}); err != nil {
		t.Fatalf("SetBookTags replace: %v", err)
	}

	tags, err := s.GetTagsForBook(ctx, "bok-1")
	if err != nil {
		t.Fatalf("GetTagsForBook: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "desert" {
		t.Errorf("expected replacement set [desert], got %v", tags)
	}
}

func TestListTagsWithCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")
	mustCreateUser(t, s, "usr-2", "bob@example.com", "bob")

	mine := makeTestBook("bok-1", "usr-1", "Dune")
	theirs := makeTestBook("bok-2", "usr-2", "Dune")
	if err := s.CreateBook(ctx, mine); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if err := s.CreateBook(ctx, theirs); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	tag, _, _ := s.FindOrCreateTagByName(ctx, "sci-fi")
	if err := s.SetBookTags(ctx, "bok-1", []string{tag.ID}); err != nil {
		t.Fatalf("SetBookTags: %v", err)
	}
	if err := s.SetBookTags(ctx, "bok-2", []string{tag.ID}); err != nil {
		t.Fatalf("SetBookTags: %v", err)
	}

	// Counts are per-user even though tags are global.
	tags, err := s.ListTagsWithCounts(ctx, "usr-1")
	if err != nil {
		t.Fatalf("ListTagsWithCounts: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(tags))
	}
	if tags[0].BookCount != 1 {
		t.Errorf("BookCount: got %d, want 1", tags[0].BookCount)
	}
}

func TestGetTagsForBooks_Batch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")
	for _, id := range []string{"bok-1", "bok-2"} {
		if err := s.CreateBook(ctx, makeTestBook(id, "usr-1", id)); err != nil {
			t.Fatalf("CreateBook %s: %v", id, err)
		}
	}

	tag, _, _ := s.FindOrCreateTagByName(ctx, "sci-fi")
	if err := s.SetBookTags(ctx, "bok-1", []string{tag.ID}); err != nil {
		t.Fatalf("SetBookTags: %v", err)
	}

	byBook, err := s.GetTagsForBooks(ctx, []string{"bok-1", "bok-2"})
	if err != nil {
		t.Fatalf("GetTagsForBooks: %v", err)
	}
	if len(byBook["bok-1"]) != 1 {
		t.Errorf("bok-1: got %v", byBook["bok-1"])
	}
	if len(byBook["bok-2"]) != 0 {
		t.Errorf("bok-2: got %v", byBook["bok-2"])
	}

	// Empty input short-circuits.
	empty, err := s.GetTagsForBooks(ctx, nil)
	if err != nil {
		t.Fatalf("GetTagsForBooks empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty map, got %v", empty)
	}
}

func TestGetTag_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetTagByID(ctx, "nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetTagByName(ctx, "nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for name, got %v", err)
	}
}
