// Package main provides a tool to seed the database with a demo catalog.
//
// It creates a demo user with a few shelf locations, tags, and books so
// the API has something to serve during development.
//
// Usage:
//
//	DATABASE_PATH=~/Shelfmark/data/shelfmark.db go run ./cmd/seed
//	go run ./cmd/seed --email demo@example.com --password demo-pass-123
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store/sqlite"
)

var (
	email    = flag.String("email", "demo@example.com", "Email for the demo user")
	username = flag.String("username", "demo", "Username for the demo user")
	password = flag.String("password", "demo-password-123", "Password for the demo user")
	public   = flag.Bool("public", true, "Make the demo catalog public")
)

type seedBook struct {
	title     string
	authors   []string
	isbn      string
	year      int
	condition domain.Condition
	location  string
	tags      []string
}

var seedBooks = []seedBook{
	{"The Dispossessed", []string{"Ursula K. Le Guin"}, "9780060512751", 1974, domain.ConditionGood, "Living Room", []string{"sf", "favorites"}},
	{"A Wizard of Earthsea", []string{"Ursula K. Le Guin"}, "9780544084377", 1968, domain.ConditionVeryGood, "Living Room", []string{"fantasy"}},
	{"Gödel, Escher, Bach", []string{"Douglas Hofstadter"}, "9780465026562", 1979, domain.ConditionAcceptable, "Office", []string{"nonfiction"}},
	{"The Left Hand of Darkness", []string{"Ursula K. Le Guin"}, "9780441478125", 1969, domain.ConditionLikeNew, "Living Room", []string{"sf"}},
	{"Structure and Interpretation of Computer Programs", []string{"Harold Abelson", "Gerald Jay Sussman"}, "9780262510875", 1985, domain.ConditionGood, "Office", []string{"nonfiction", "programming"}},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to determine home directory: %v", err)
		}
		dbPath = filepath.Join(home, "Shelfmark", "data", "shelfmark.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	user, err := seedUser(ctx, s)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	fmt.Printf("Demo user ready: %s (%s)\n", user.Username, user.ID)

	locations, err := seedLocations(ctx, s, user.ID)
	if err != nil {
		log.Fatalf("Failed to create locations: %v", err)
	}

	created := 0
	for _, sb := range seedBooks {
		if _, err := s.GetBookByUserISBN(ctx, user.ID, sb.isbn); err == nil {
			fmt.Printf("  skipping %s (already present)\n", sb.title)
			continue
		}

		bookID, err := id.Generate("bok")
		if err != nil {
			log.Fatalf("Failed to generate book ID: %v", err)
		}

		year := sb.year
		book := domain.NewBook(bookID, user.ID, sb.title)
		book.ISBN = sb.isbn
		book.Authors = sb.authors
		book.PublishedYear = &year
		book.Condition = sb.condition
		book.LocationID = locations[sb.location]

		if err := s.CreateBook(ctx, book); err != nil {
			log.Fatalf("Failed to create book %q: %v", sb.title, err)
		}

		tagIDs := make([]string, 0, len(sb.tags))
		for _, name := range sb.tags {
			tag, _, err := s.FindOrCreateTagByName(ctx, name)
			if err != nil {
				log.Fatalf("Failed to create tag %q: %v", name, err)
			}
			tagIDs = append(tagIDs, tag.ID)
		}
		if err := s.SetBookTags(ctx, book.ID, tagIDs); err != nil {
			log.Fatalf("Failed to tag book %q: %v", sb.title, err)
		}

		created++
		fmt.Printf("  added %s\n", sb.title)
	}

	fmt.Printf("\nDone. %d books added.\n", created)
	if *public {
		fmt.Printf("Public catalog: /api/v1/public/%s\n", user.Username)
	}
}

// seedUser creates the demo user, or returns the existing one.
func seedUser(ctx context.Context, s *sqlite.Store) (*domain.User, error) {
	if user, err := s.GetUserByEmail(ctx, *email); err == nil {
		return user, nil
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return nil, err
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(userID, *email, *username)
	user.PasswordHash = hash
	user.DisplayName = "Demo Reader"
	user.IsLibraryPublic = *public

	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// seedLocations creates the shelf locations the seed books reference and
// returns a name-to-ID map.
func seedLocations(ctx context.Context, s *sqlite.Store, userID string) (map[string]string, error) {
	byName := make(map[string]string)

	existing, err := s.ListLocations(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, loc := range existing {
		byName[loc.Name] = loc.ID
	}

	for _, name := range []string{"Living Room", "Office"} {
		if _, ok := byName[name]; ok {
			continue
		}
		locID, err := id.Generate("loc")
		if err != nil {
			return nil, err
		}
		if err := s.CreateLocation(ctx, domain.NewLocation(locID, userID, name)); err != nil {
			return nil, err
		}
		byName[name] = locID
	}

	return byName, nil
}
