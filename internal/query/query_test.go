package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libkeeper/libkeeper/internal/domain"
	"github.com/libkeeper/libkeeper/internal/errors"
)

func testBooks() []domain.Book {
	return []domain.Book{
		{ID: "bk-1", Title: "Dune", Author: "Frank Herbert", Genres: []string{"Sci-Fi"}, ReadStatus: true, Rating: 5},
		{ID: "bk-2", Title: "The Hobbit", Author: "J.R.R. Tolkien", Genres: []string{"Fantasy", "Adventure"}, ReadStatus: true, Rating: 4},
		{ID: "bk-3", Title: "Sapiens", Author: "Yuval Noah Harari", Genres: []string{"Non-Fiction", "History"}, Rating: 3},
		{ID: "bk-4", Title: "Neuromancer", Author: "William Gibson", Genres: []string{"Sci-Fi", "Fiction"}},
		{ID: "bk-5", Title: "Emma", Author: "Jane Austen", Genres: []string{"Fiction", "Romance"}, ReadStatus: true, Rating: 2},
	}
}

func ids(books []domain.Book) []string {
	out := make([]string, len(books))
	for i := range books {
		out[i] = books[i].ID
	}
	return out
}

func TestSearch_Title(t *testing.T) {
	results, err := Search(testBooks(), "une", FieldTitle)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-1"}, ids(results))
}

func TestSearch_CaseInsensitive(t *testing.T) {
	results, err := Search(testBooks(), "DUNE", FieldTitle)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-1"}, ids(results))

	results, err = Search(testBooks(), "tolkien", FieldAuthor)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-2"}, ids(results))
}

func TestSearch_GenreSubstring(t *testing.T) {
	// "fic" is in "Fiction" and "Non-Fiction" but NOT "Sci-Fi".
	results, err := Search(testBooks(), "fic", FieldGenre)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-3", "bk-4", "bk-5"}, ids(results))
}

func TestSearch_GenreMatchesAnyTag(t *testing.T) {
	results, err := Search(testBooks(), "adventure", FieldGenre)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-2"}, ids(results))
}

func TestSearch_StoreOrderPreserved(t *testing.T) {
	results, err := Search(testBooks(), "n", FieldTitle)
	require.NoError(t, err)
	assert.Equal(t, []string{"bk-1", "bk-3", "bk-4"}, ids(results))
}

func TestSearch_UnknownField(t *testing.T) {
	_, err := Search(testBooks(), "x", Field("isbn"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestSearch_NoMatches(t *testing.T) {
	results, err := Search(testBooks(), "zzz", FieldTitle)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFilter_NoPredicates(t *testing.T) {
	results := Filter(testBooks(), Filters{})
	assert.Len(t, results, 5)
}

func TestFilter_GenreExactMembership(t *testing.T) {
	g := "Fiction"
	results := Filter(testBooks(), Filters{Genre: &g})
	// Exact membership: "Sci-Fi" and "Non-Fiction" tags don't count.
	assert.Equal(t, []string{"bk-4", "bk-5"}, ids(results))
}

func TestFilter_ReadStatus(t *testing.T) {
	read := true
	results := Filter(testBooks(), Filters{ReadStatus: &read})
	assert.Equal(t, []string{"bk-1", "bk-2", "bk-5"}, ids(results))

	unread := false
	results = Filter(testBooks(), Filters{ReadStatus: &unread})
	assert.Equal(t, []string{"bk-3", "bk-4"}, ids(results))
}

func TestFilter_RatingRange(t *testing.T) {
	results := Filter(testBooks(), Filters{Rating: &RatingRange{Low: 1, High: 5}})
	// Unrated (0) records fall outside [1,5].
	assert.Equal(t, []string{"bk-1", "bk-2", "bk-3", "bk-5"}, ids(results))

	results = Filter(testBooks(), Filters{Rating: &RatingRange{Low: 0, High: 5}})
	assert.Len(t, results, 5)

	results = Filter(testBooks(), Filters{Rating: &RatingRange{Low: 4, High: 5}})
	assert.Equal(t, []string{"bk-1", "bk-2"}, ids(results))
}

func TestFilter_Conjunction(t *testing.T) {
	read := true
	results := Filter(testBooks(), Filters{
		ReadStatus: &read,
		Rating:     &RatingRange{Low: 1, High: 5},
	})
	assert.Equal(t, []string{"bk-1", "bk-2", "bk-5"}, ids(results))

	g := "Sci-Fi"
	results = Filter(testBooks(), Filters{
		Genre:      &g,
		ReadStatus: &read,
		Rating:     &RatingRange{Low: 1, High: 5},
	})
	assert.Equal(t, []string{"bk-1"}, ids(results))
}

func TestFilter_OrderIndependent(t *testing.T) {
	// Ten books: four read with ratings in [1,5], six unread.
	books := make([]domain.Book, 0, 10)
	for i := 0; i < 4; i++ {
		books = append(books, domain.Book{
			ID: "read-" + string(rune('a'+i)), ReadStatus: true, Rating: i + 1,
			Genres: []string{"Fiction"},
		})
	}
	for i := 0; i < 6; i++ {
		books = append(books, domain.Book{
			ID: "unread-" + string(rune('a'+i)), Rating: (i % 5) + 1,
			Genres: []string{"Fiction"},
		})
	}

	read := true
	both := Filter(books, Filters{ReadStatus: &read, Rating: &RatingRange{Low: 1, High: 5}})
	assert.Len(t, both, 4)
	for _, b := range both {
		assert.True(t, b.ReadStatus)
		assert.GreaterOrEqual(t, b.Rating, 1)
		assert.LessOrEqual(t, b.Rating, 5)
	}

	// Applying predicates one at a time in either order gives the same set.
	byStatusFirst := Filter(Filter(books, Filters{ReadStatus: &read}), Filters{Rating: &RatingRange{Low: 1, High: 5}})
	byRatingFirst := Filter(Filter(books, Filters{Rating: &RatingRange{Low: 1, High: 5}}), Filters{ReadStatus: &read})
	assert.Equal(t, ids(both), ids(byStatusFirst))
	assert.Equal(t, ids(both), ids(byRatingFirst))
}
