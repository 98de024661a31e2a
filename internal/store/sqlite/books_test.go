package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// makeTestBook creates a domain.Book with sensible defaults for testing.
func makeTestBook(id, userID, title string) *domain.Book {
	return domain.NewBook(id, userID, title)
}

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	year := 1969
	pages := 304
	b := makeTestBook("bok-1", "usr-1", "The Left Hand of Darkness")
	b.ISBN = "9780441478125"
	b.Authors = []string{"Ursula K. Le Guin"}
	b.Publisher = "Ace"
	b.PublishedYear = &year
	b.PageCount = &pages
	b.Description = "Winter is a planet."
	b.Condition = domain.ConditionVeryGood
	b.Notes = "signed copy"

	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "bok-1", "usr-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}

	if got.Title != b.Title {
		t.Errorf("Title: got %q, want %q", got.Title, b.Title)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "Ursula K. Le Guin" {
		t.Errorf("Authors: got %v", got.Authors)
	}
	if got.PublishedYear == nil || *got.PublishedYear != 1969 {
		t.Errorf("PublishedYear: got %v", got.PublishedYear)
	}
	if got.PageCount == nil || *got.PageCount != 304 {
		t.Errorf("PageCount: got %v", got.PageCount)
	}
	if got.Condition != domain.ConditionVeryGood {
		t.Errorf("Condition: got %q", got.Condition)
	}
	if !got.ShowInPublic {
		t.Error("ShowInPublic should default to true")
	}
}

func TestBook_AuthorsNilVsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	// Nil authors: never supplied.
	noAuthors := makeTestBook("bok-nil", "usr-1", "Anonymous Work")
	if err := s.CreateBook(ctx, noAuthors); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	// Empty authors: explicitly an empty list.
	emptyAuthors := makeTestBook("bok-empty", "usr-1", "Collective Work")
	emptyAuthors.Authors = []string{}
	if err := s.CreateBook(ctx, emptyAuthors); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	gotNil, err := s.GetBook(ctx, "bok-nil", "usr-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if gotNil.Authors != nil {
		t.Errorf("nil authors became %v", gotNil.Authors)
	}

	gotEmpty, err := s.GetBook(ctx, "bok-empty", "usr-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if gotEmpty.Authors == nil {
		t.Error("empty authors became nil")
	}
	if len(gotEmpty.Authors) != 0 {
		t.Errorf("empty authors: got %v", gotEmpty.Authors)
	}
}

func TestCreateBook_DuplicateISBNPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")
	mustCreateUser(t, s, "usr-2", "bob@example.com", "bob")

	first := makeTestBook("bok-1", "usr-1", "Dune")
	first.ISBN = "9780441172719"
	if err := s.CreateBook(ctx, first); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	// Same user, same ISBN: conflict.
	dup := makeTestBook("bok-2", "usr-1", "Dune (again)")
	dup.ISBN = "9780441172719"
	if err := s.CreateBook(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// Different user, same ISBN: fine.
	other := makeTestBook("bok-3", "usr-2", "Dune")
	other.ISBN = "9780441172719"
	if err := s.CreateBook(ctx, other); err != nil {
		t.Fatalf("CreateBook for second user: %v", err)
	}

	// Books without an ISBN never collide.
	blank1 := makeTestBook("bok-4", "usr-1", "Untraced")
	blank2 := makeTestBook("bok-5", "usr-1", "Also Untraced")
	if err := s.CreateBook(ctx, blank1); err != nil {
		t.Fatalf("CreateBook blank isbn: %v", err)
	}
	if err := s.CreateBook(ctx, blank2); err != nil {
		t.Fatalf("CreateBook second blank isbn: %v", err)
	}
}

func TestCreateBooks_Transactional(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	existing := makeTestBook("bok-1", "usr-1", "Dune")
	existing.ISBN = "9780441172719"
	if err := s.CreateBook(ctx, existing); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	fresh := makeTestBook("bok-2", "usr-1", "Hyperion")
	fresh.ISBN = "9780553283686"
	colliding := makeTestBook("bok-3", "usr-1", "Dune duplicate")
	colliding.ISBN = "9780441172719"

	err := s.CreateBooks(ctx, []*domain.Book{fresh, colliding})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// The whole batch must have rolled back.
	if _, err := s.GetBook(ctx, "bok-2", "usr-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected rollback of bok-2, got %v", err)
	}

	n, err := s.CountBooks(ctx, "usr-1")
	if err != nil {
		t.Fatalf("CountBooks: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 book after failed batch, got %d", n)
	}
}

func TestGetBook_ScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")
	mustCreateUser(t, s, "usr-2", "bob@example.com", "bob")

	b := makeTestBook("bok-1", "usr-1", "Dune")
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	if _, err := s.GetBook(ctx, "bok-1", "usr-2"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
	if err := s.DeleteBook(ctx, "bok-1", "usr-2"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting as wrong owner, got %v", err)
	}
}

func TestListBooks_FiltersAndPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	for i := range 5 {
		b := makeTestBook(fmt.Sprintf("bok-%d", i), "usr-1", fmt.Sprintf("Novel %d", i))
		b.ISBN = fmt.Sprintf("97800000000%02d", i)
		b.Authors = []string{"Frank Herbert"}
		if i == 0 {
			b.Title = "Dune"
			b.ShowInPublic = false
		}
		if err := s.CreateBook(ctx, b); err != nil {
			t.Fatalf("CreateBook %d: %v", i, err)
		}
	}

	// Search by title substring (case-insensitive).
	res, err := s.ListBooks(ctx, "usr-1", store.BookFilter{Search: "dune"}, store.PaginationParams{})
	if err != nil {
		t.Fatalf("ListBooks search: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Title != "Dune" {
		t.Errorf("search: got %d items", len(res.Items))
	}

	// Author filter.
	res, err = s.ListBooks(ctx, "usr-1", store.BookFilter{Author: "herbert"}, store.PaginationParams{})
	if err != nil {
		t.Fatalf("ListBooks author: %v", err)
	}
	if len(res.Items) != 5 {
		t.Errorf("author filter: got %d items, want 5", len(res.Items))
	}

	// PublicOnly excludes the hidden book.
	res, err = s.ListBooks(ctx, "usr-1", store.BookFilter{PublicOnly: true}, store.PaginationParams{})
	if err != nil {
		t.Fatalf("ListBooks public: %v", err)
	}
	if len(res.Items) != 4 {
		t.Errorf("public filter: got %d items, want 4", len(res.Items))
	}

	// Pagination walks all rows without repeats.
	seen := map[string]bool{}
	params := store.PaginationParams{Limit: 2}
	for {
		page, err := s.ListBooks(ctx, "usr-1", store.BookFilter{}, params)
		if err != nil {
			t.Fatalf("ListBooks page: %v", err)
		}
		if page.Total != 5 {
			t.Errorf("Total: got %d, want 5", page.Total)
		}
		for _, b := range page.Items {
			if seen[b.ID] {
				t.Errorf("book %s returned twice", b.ID)
			}
			seen[b.ID] = true
		}
		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}
	if len(seen) != 5 {
		t.Errorf("pagination walked %d books, want 5", len(seen))
	}
}

func TestListBooks_PaginationParams(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")
	b := makeTestBook("bok-1", "usr-1", "Solo")
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	// Out-of-range limits are clamped, not rejected.
	res, err := s.ListBooks(ctx, "usr-1", store.BookFilter{}, store.PaginationParams{Limit: -5})
	if err != nil {
		t.Fatalf("ListBooks negative limit: %v", err)
	}
	if len(res.Items) != 1 {
		t.Errorf("got %d items, want 1", len(res.Items))
	}

	// A cursor that is not valid base64 fails validation.
	_, err = s.ListBooks(ctx, "usr-1", store.BookFilter{}, store.PaginationParams{Cursor: "not-valid-base64!!!"})
	if err == nil {
		t.Error("expected error for malformed cursor")
	}
}

func TestListBooks_TagFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	tagged := makeTestBook("bok-1", "usr-1", "Dune")
	plain := makeTestBook("bok-2", "usr-1", "Hyperion")
	if err := s.CreateBook(ctx, tagged); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if err := s.CreateBook(ctx, plain); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	tag, _, err := s.FindOrCreateTagByName(ctx, "sci-fi")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName: %v", err)
	}
	if err := s.SetBookTags(ctx, "bok-1", []string{tag.ID}); err != nil {
		t.Fatalf("SetBookTags: %v", err)
	}

	res, err := s.ListBooks(ctx, "usr-1", store.BookFilter{TagName: "sci-fi"}, store.PaginationParams{})
	if err != nil {
		t.Fatalf("ListBooks tag: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "bok-1" {
		t.Fatalf("tag filter: got %d items", len(res.Items))
	}
	// Tags come back attached.
	if len(res.Items[0].Tags) != 1 || res.Items[0].Tags[0].Name != "sci-fi" {
		t.Errorf("tags not attached: %v", res.Items[0].Tags)
	}
}

func TestUpdateBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	b := makeTestBook("bok-1", "usr-1", "Draft Title")
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	b.Title = "Final Title"
	b.IsPinned = true
	b.Touch()
	if err := s.UpdateBook(ctx, b); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "bok-1", "usr-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != "Final Title" || !got.IsPinned {
		t.Errorf("update did not stick: %+v", got)
	}
}

func TestDeleteBook_CascadesTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "usr-1", "ada@example.com", "ada")

	b := makeTestBook("bok-1", "usr-1", "Dune")
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	tag, _, err := s.FindOrCreateTagByName(ctx, "sci-fi")
	if err != nil {
		t.Fatalf("FindOrCreateTagByName: %v", err)
	}
	if err := s.SetBookTags(ctx, "bok-1", []string{tag.ID}); err != nil {
		t.Fatalf("SetBookTags: %v", err)
	}

	if err := s.DeleteBook(ctx, "bok-1", "usr-1"); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM book_tags WHERE book_id = 'bok-1'`).Scan(&n); err != nil {
		t.Fatalf("count book_tags: %v", err)
	}
	if n != 0 {
		t.Errorf("expected cascade delete of book_tags, got %d rows", n)
	}

	// The tag itself survives.
	if _, err := s.GetTagByName(ctx, "sci-fi"); err != nil {
		t.Errorf("tag should survive book deletion: %v", err)
	}
}
