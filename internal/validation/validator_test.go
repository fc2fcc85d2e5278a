package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libkeeper/libkeeper/internal/domain"
	domainerrors "github.com/libkeeper/libkeeper/internal/errors"
)

func validDraft() *domain.BookDraft {
	return &domain.BookDraft{
		Title:           "Dune",
		Author:          "Frank Herbert",
		PublicationYear: 1965,
		Genres:          []string{"Sci-Fi"},
		Rating:          5,
	}
}

func TestValidateDraft_Valid(t *testing.T) {
	v := New()
	require.NoError(t, v.ValidateDraft(validDraft()))
}

func TestValidateDraft_RequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.BookDraft)
		wantField string
	}{
		{"empty title", func(d *domain.BookDraft) { d.Title = "" }, "title"},
		{"empty author", func(d *domain.BookDraft) { d.Author = "" }, "author"},
		{"nil genres", func(d *domain.BookDraft) { d.Genres = nil }, "genres"},
		{"empty genres", func(d *domain.BookDraft) { d.Genres = []string{} }, "genres"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)

			err := v.ValidateDraft(draft)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

			var domainErr *domainerrors.Error
			require.True(t, domainerrors.As(err, &domainErr))
			fields, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateDraft_YearBounds(t *testing.T) {
	v := New()
	v.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	draft := validDraft()
	draft.PublicationYear = 999
	err := v.ValidateDraft(draft)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	draft = validDraft()
	draft.PublicationYear = 2027
	err = v.ValidateDraft(draft)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	draft = validDraft()
	draft.PublicationYear = 2026
	assert.NoError(t, v.ValidateDraft(draft))
}

func TestValidateDraft_RatingBounds(t *testing.T) {
	v := New()

	draft := validDraft()
	draft.Rating = 6
	err := v.ValidateDraft(draft)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	draft = validDraft()
	draft.Rating = 0 // unrated default is allowed
	assert.NoError(t, v.ValidateDraft(draft))
}
