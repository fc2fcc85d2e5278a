package store

import (
	"github.com/libkeeper/libkeeper/internal/domain"
	"github.com/libkeeper/libkeeper/internal/genre"
	"github.com/libkeeper/libkeeper/internal/id"
)

// A migration is one named schema upgrade step applied to a loaded record.
// Steps run in order and every step must be idempotent: Migrate runs
// unconditionally on every load path, not only the first.
type migration struct {
	name  string
	apply func(*domain.Book)
}

var migrations = []migration{
	{
		// Records written before genres existed have no genres key at all.
		name: "backfill-genres",
		apply: func(b *domain.Book) {
			if b.Genres == nil {
				b.Genres = []string{}
			}
		},
	},
	{
		// Remaps the legacy "Science Fiction" tag (and other known
		// variants) to the canonical vocabulary.
		name: "normalize-genre-tags",
		apply: func(b *domain.Book) {
			b.Genres = genre.NormalizeAll(b.Genres)
		},
	},
	{
		// Records written before stable IDs were introduced get one now.
		name: "assign-record-id",
		apply: func(b *domain.Book) {
			if b.ID == "" {
				b.ID = id.MustGenerate("bk")
			}
		},
	},
	{
		// Hand-edited files occasionally carry out-of-range ratings.
		name: "clamp-rating",
		apply: func(b *domain.Book) {
			if b.Rating < 0 {
				b.Rating = 0
			}
			if b.Rating > 5 {
				b.Rating = 5
			}
		},
	},
}

// Migrate applies every schema upgrade step to every record and returns
// the upgraded sequence. Records are modified in place.
func Migrate(books []domain.Book) []domain.Book {
	for i := range books {
		for _, m := range migrations {
			m.apply(&books[i])
		}
	}
	return books
}
