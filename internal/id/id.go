// Package id generates prefixed nanoid identifiers. The prefix names
// the entity kind, so an ID is self-describing in logs and exports
// (e.g. "bok-V1StGXR8_Z5jdHi6B-myT").
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate returns a new "prefix-nanoid" identifier using the default
// 21-character URL-safe alphabet. It errors only when the system
// cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is Generate that panics on failure. Reserve it for
// initialization paths where no randomness means no program.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
