package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBook_Defaults(t *testing.T) {
	b := NewBook("bok-1", "usr-1", "The Left Hand of Darkness")

	assert.True(t, b.ShowInPublic, "books should be publicly visible by default")
	assert.False(t, b.IsPinned)
	assert.Nil(t, b.Authors, "authors start absent, not empty")
	assert.Nil(t, b.PublishedYear)
}

func TestBookPatch_Apply(t *testing.T) {
	b := NewBook("bok-1", "usr-1", "Old Title")
	b.Notes = "keep me"

	title := "New Title"
	authors := []string{"Ursula K. Le Guin"}
	year := 1969
	pinned := true
	hidden := false
	patch := &BookPatch{
		Title:         &title,
		Authors:       &authors,
		PublishedYear: &year,
		IsPinned:      &pinned,
		ShowInPublic:  &hidden,
	}
	patch.Apply(b)

	assert.Equal(t, "New Title", b.Title)
	assert.Equal(t, authors, b.Authors)
	assert.Equal(t, 1969, *b.PublishedYear)
	assert.True(t, b.IsPinned)
	assert.False(t, b.ShowInPublic)
	assert.Equal(t, "keep me", b.Notes, "unpatched fields are untouched")
}

func TestBookPatch_Apply_ClearFields(t *testing.T) {
	b := NewBook("bok-1", "usr-1", "Title")
	b.LocationID = "loc-1"
	b.Condition = ConditionGood

	empty := ""
	var noCondition Condition
	patch := &BookPatch{
		LocationID: &empty,
		Condition:  &noCondition,
	}
	patch.Apply(b)

	assert.Empty(t, b.LocationID, "empty value clears the field")
	assert.Empty(t, b.Condition)
}
