// Package domain contains the core business entities for the libkeeper book collection.
package domain

import (
	"slices"
	"strings"
	"time"
)

// DateAddedLayout is the textual timestamp format persisted in date_added.
// Second precision, matching the files written by earlier versions of the app.
const DateAddedLayout = "2006-01-02 15:04:05"

// MinPublicationYear is the lower bound for publication_year.
const MinPublicationYear = 1000

// Book represents one record in the collection.
//
// ID is the stable mutation key: assigned once at creation, never reused.
// Display order and title remain lookup conveniences for the presentation
// layer but are not identity.
type Book struct {
	ID              string   `json:"id"`
	Title           string   `json:"title" validate:"required"`
	Author          string   `json:"author" validate:"required"`
	PublicationYear int      `json:"publication_year" validate:"min=1000"`
	Genres          []string `json:"genres" validate:"required,min=1"`
	ReadStatus      bool     `json:"read_status"`
	DateAdded       string   `json:"date_added"`
	CoverImage      []byte   `json:"cover_image,omitzero"`
	Rating          int      `json:"rating" validate:"min=0,max=5"`
	Review          string   `json:"review"`
}

// BookDraft is the mutable field set supplied by the presentation layer
// when adding or editing a book. A nil CoverImage on edit means "keep the
// existing cover".
type BookDraft struct {
	Title           string   `json:"title" validate:"required"`
	Author          string   `json:"author" validate:"required"`
	PublicationYear int      `json:"publication_year" validate:"min=1000"`
	Genres          []string `json:"genres" validate:"required,min=1"`
	ReadStatus      bool     `json:"read_status"`
	CoverImage      []byte   `json:"cover_image,omitzero"`
	Rating          int      `json:"rating" validate:"min=0,max=5"`
	Review          string   `json:"review"`
}

// NewDateAdded formats a creation timestamp.
func NewDateAdded(t time.Time) string {
	return t.Format(DateAddedLayout)
}

// Clone returns a deep copy of the book.
func (b *Book) Clone() Book {
	c := *b
	c.Genres = slices.Clone(b.Genres)
	c.CoverImage = slices.Clone(b.CoverImage)
	return c
}

// MatchesTitle reports whether title matches the book's title,
// case-insensitively and exactly.
func (b *Book) MatchesTitle(title string) bool {
	return strings.EqualFold(b.Title, title)
}

// HasGenre reports exact tag membership.
func (b *Book) HasGenre(tag string) bool {
	return slices.Contains(b.Genres, tag)
}

// HasCover reports whether the book carries cover image bytes.
func (b *Book) HasCover() bool {
	return len(b.CoverImage) > 0
}
