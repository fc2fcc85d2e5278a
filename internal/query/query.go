// Package query implements substring search and predicate filtering over a
// record snapshot. Both are pure functions: they never mutate the input and
// return matches in store order, unranked.
package query

import (
	"strings"

	"github.com/libkeeper/libkeeper/internal/domain"
	"github.com/libkeeper/libkeeper/internal/errors"
)

// Field selects which record field Search matches against.
type Field string

// Searchable fields.
const (
	FieldTitle  Field = "title"
	FieldAuthor Field = "author"
	FieldGenre  Field = "genre"
)

// Search returns every record whose selected field contains the query,
// case-insensitively. For the genre field a record matches when ANY of its
// tags contains the substring: "fic" matches "Fiction" and "Non-Fiction"
// but not "Sci-Fi".
func Search(books []domain.Book, query string, field Field) ([]domain.Book, error) {
	q := strings.ToLower(query)

	var match func(*domain.Book) bool
	switch field {
	case FieldTitle:
		match = func(b *domain.Book) bool {
			return strings.Contains(strings.ToLower(b.Title), q)
		}
	case FieldAuthor:
		match = func(b *domain.Book) bool {
			return strings.Contains(strings.ToLower(b.Author), q)
		}
	case FieldGenre:
		match = func(b *domain.Book) bool {
			for _, tag := range b.Genres {
				if strings.Contains(strings.ToLower(tag), q) {
					return true
				}
			}
			return false
		}
	default:
		return nil, errors.Validationf("unknown search field %q", field)
	}

	var results []domain.Book
	for i := range books {
		if match(&books[i]) {
			results = append(results, books[i])
		}
	}
	return results, nil
}

// RatingRange is an inclusive [Low, High] bound on a record's rating.
// Records without a rating count as 0.
type RatingRange struct {
	Low  int
	High int
}

// Contains reports whether rating falls inside the range.
func (r RatingRange) Contains(rating int) bool {
	return rating >= r.Low && rating <= r.High
}

// Filters is a conjunction of optional per-record predicates. A nil
// predicate is skipped; predicates are independent, so application order
// never changes the result set.
type Filters struct {
	// Genre requires exact tag membership, not a substring.
	Genre *string
	// ReadStatus requires exact equality.
	ReadStatus *bool
	// Rating bounds the record's rating inclusively.
	Rating *RatingRange
}

// Filter returns the records satisfying every set predicate, in store order.
func Filter(books []domain.Book, f Filters) []domain.Book {
	var results []domain.Book
	for i := range books {
		b := &books[i]
		if f.Genre != nil && !b.HasGenre(*f.Genre) {
			continue
		}
		if f.ReadStatus != nil && b.ReadStatus != *f.ReadStatus {
			continue
		}
		if f.Rating != nil && !f.Rating.Contains(b.Rating) {
			continue
		}
		results = append(results, books[i])
	}
	return results
}
