// Package store holds the in-memory ordered book collection and its
// mutation operations. Every successful mutation is written through to the
// persister; validation failures leave both memory and disk untouched.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/libkeeper/libkeeper/internal/domain"
	"github.com/libkeeper/libkeeper/internal/errors"
	"github.com/libkeeper/libkeeper/internal/genre"
	"github.com/libkeeper/libkeeper/internal/id"
	"github.com/libkeeper/libkeeper/internal/validation"
)

// Persister abstracts the on-disk library file.
type Persister interface {
	Load() ([]domain.Book, error)
	Save([]domain.Book) error
	Exists() bool
}

// Library is the ordered in-memory record collection.
//
// Records are addressed by their stable ID for mutation. Insertion order is
// preserved and significant only for display. The mutex guards against the
// file-watcher reload goroutine interleaving with caller operations; there
// is otherwise a single logical session.
type Library struct {
	mu        sync.Mutex
	books     []domain.Book
	persister Persister
	validator *validation.Validator
	logger    *slog.Logger

	now func() time.Time
}

// New creates an empty Library backed by the given persister.
func New(p Persister, v *validation.Validator, logger *slog.Logger) *Library {
	return &Library{
		persister: p,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// Len returns the number of records.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.books)
}

// All returns a deep copy of the record sequence in insertion order.
func (l *Library) All() []domain.Book {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Book, len(l.books))
	for i := range l.books {
		out[i] = l.books[i].Clone()
	}
	return out
}

// Get returns a copy of the record with the given ID.
func (l *Library) Get(bookID string) (*domain.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(bookID)
	if i < 0 {
		return nil, errors.NotFoundf("no book with id %s", bookID)
	}
	b := l.books[i].Clone()
	return &b, nil
}

// At returns a copy of the record at the given display position.
func (l *Library) At(index int) (*domain.Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.books) {
		return nil, errors.NotFoundf("index %d out of range (%d books)", index, len(l.books))
	}
	b := l.books[index].Clone()
	return &b, nil
}

// Add validates the draft, stamps identity and creation time, appends the
// record, and writes through to disk.
//
// A validation failure changes nothing. A persistence failure is returned
// after the in-memory append has happened; memory and disk diverge until
// the next successful save.
func (l *Library) Add(draft *domain.BookDraft) (*domain.Book, error) {
	if err := l.validator.ValidateDraft(draft); err != nil {
		return nil, err
	}

	bookID, err := id.Generate("bk")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate book id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	book := domain.Book{
		ID:              bookID,
		Title:           draft.Title,
		Author:          draft.Author,
		PublicationYear: draft.PublicationYear,
		Genres:          genre.NormalizeAll(draft.Genres),
		ReadStatus:      draft.ReadStatus,
		DateAdded:       domain.NewDateAdded(l.now()),
		CoverImage:      cloneBytes(draft.CoverImage),
		Rating:          draft.Rating,
		Review:          draft.Review,
	}
	l.books = append(l.books, book)

	l.logger.Info("book added", "id", book.ID, "title", book.Title, "author", book.Author)

	if err := l.persister.Save(l.snapshot()); err != nil {
		l.logger.Error("save after add failed", "id", book.ID, "error", err)
		return &book, err
	}
	return &book, nil
}

// Update replaces all mutable fields of the record with the given ID.
// DateAdded and ID are never altered. A nil draft cover keeps the
// existing cover bytes.
func (l *Library) Update(bookID string, draft *domain.BookDraft) (*domain.Book, error) {
	if err := l.validator.ValidateDraft(draft); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(bookID)
	if i < 0 {
		return nil, errors.NotFoundf("no book with id %s", bookID)
	}

	book := &l.books[i]
	book.Title = draft.Title
	book.Author = draft.Author
	book.PublicationYear = draft.PublicationYear
	book.Genres = genre.NormalizeAll(draft.Genres)
	book.ReadStatus = draft.ReadStatus
	if draft.CoverImage != nil {
		book.CoverImage = cloneBytes(draft.CoverImage)
	}
	book.Rating = draft.Rating
	book.Review = draft.Review

	l.logger.Info("book updated", "id", book.ID, "title", book.Title)

	updated := book.Clone()
	if err := l.persister.Save(l.snapshot()); err != nil {
		l.logger.Error("save after update failed", "id", book.ID, "error", err)
		return &updated, err
	}
	return &updated, nil
}

// RemoveByTitle removes every record whose title matches case-insensitively
// and exactly, returning the number removed. Duplicate titles all go; this
// mirrors what the app has always done and is why mutation otherwise runs
// on IDs. Zero matches is a not-found error and nothing is persisted.
func (l *Library) RemoveByTitle(title string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.books[:0:0]
	for i := range l.books {
		if !l.books[i].MatchesTitle(title) {
			kept = append(kept, l.books[i])
		}
	}

	removed := len(l.books) - len(kept)
	if removed == 0 {
		return 0, errors.NotFoundf("no book titled %q", title)
	}
	l.books = kept

	l.logger.Info("books removed", "title", title, "count", removed)

	if err := l.persister.Save(l.snapshot()); err != nil {
		l.logger.Error("save after remove failed", "title", title, "error", err)
		return removed, err
	}
	return removed, nil
}

// Load reads the persisted sequence, replacing the in-memory state
// wholesale on success. The schema migration runs unconditionally on every
// load. On any failure the prior in-memory state is left untouched.
func (l *Library) Load() error {
	books, err := l.persister.Load()
	if err != nil {
		l.logger.Error("library load failed", "error", err)
		return err
	}

	books = Migrate(books)

	l.mu.Lock()
	l.books = books
	l.mu.Unlock()

	l.logger.Info("library loaded", "records", len(books))
	return nil
}

// Save writes the full in-memory sequence to disk.
func (l *Library) Save() error {
	l.mu.Lock()
	snap := l.snapshot()
	l.mu.Unlock()

	if err := l.persister.Save(snap); err != nil {
		l.logger.Error("library save failed", "error", err)
		return err
	}

	l.logger.Info("library saved", "records", len(snap))
	return nil
}

// indexOf returns the position of the record with the given ID, or -1.
// Caller must hold the mutex.
func (l *Library) indexOf(bookID string) int {
	for i := range l.books {
		if l.books[i].ID == bookID {
			return i
		}
	}
	return -1
}

// snapshot deep-copies the sequence for handing to the persister.
// Caller must hold the mutex.
func (l *Library) snapshot() []domain.Book {
	out := make([]domain.Book, len(l.books))
	for i := range l.books {
		out[i] = l.books[i].Clone()
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
