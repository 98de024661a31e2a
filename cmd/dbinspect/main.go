// Package main provides a read-only inspection tool for the Shelfmark database.
//
// Usage:
//
//	DATABASE_PATH=~/Shelfmark/data/shelfmark.db go run ./cmd/dbinspect
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

func main() {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to determine home directory: %v", err)
		}
		dbPath = filepath.Join(home, "Shelfmark", "data", "shelfmark.db")
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	for _, table := range []string{"users", "sessions", "books", "tags", "book_tags", "locations"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			log.Fatalf("Failed to count %s: %v", table, err)
		}
		fmt.Printf("%-12s %d\n", table, count)
	}

	fmt.Println()
	fmt.Println("=== Catalogs ===")
	fmt.Println()

	rows, err := db.Query(`
		SELECT u.username, u.is_library_public,
		       COUNT(b.id) AS books,
		       SUM(CASE WHEN b.show_in_public = 1 THEN 1 ELSE 0 END) AS public_books
		FROM users u
		LEFT JOIN books b ON b.user_id = u.id
		GROUP BY u.id
		ORDER BY u.username`)
	if err != nil {
		log.Fatalf("Failed to query catalogs: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			username    string
			public      int
			books       int
			publicBooks sql.NullInt64
		)
		if err := rows.Scan(&username, &public, &books, &publicBooks); err != nil {
			log.Fatalf("Failed to scan row: %v", err)
		}

		visibility := "private"
		if public == 1 {
			visibility = "public"
		}
		fmt.Printf("%-20s %-8s %d books (%d visible)\n", username, visibility, books, publicBooks.Int64)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Row iteration failed: %v", err)
	}
}
