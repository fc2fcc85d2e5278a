// Package service provides the business logic layer over the collection store.
package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/libkeeper/libkeeper/internal/domain"
	"github.com/libkeeper/libkeeper/internal/errors"
	"github.com/libkeeper/libkeeper/internal/export"
	"github.com/libkeeper/libkeeper/internal/media"
	"github.com/libkeeper/libkeeper/internal/query"
	"github.com/libkeeper/libkeeper/internal/stats"
	"github.com/libkeeper/libkeeper/internal/store"
)

// LibraryService orchestrates collection operations.
type LibraryService struct {
	library *store.Library
	logger  *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(library *store.Library, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		library: library,
		logger:  logger,
	}
}

// AddBook validates the draft, assigns an ID and added-at timestamp, and
// writes the collection through to disk.
func (s *LibraryService) AddBook(ctx context.Context, draft *domain.BookDraft) (*domain.Book, error) {
	if draft.CoverImage != nil {
		if _, err := media.Inspect(draft.CoverImage); err != nil {
			return nil, err
		}
	}
	return s.library.Add(draft)
}

// EditBook replaces the mutable fields of the record at the given display
// index. The index is resolved to the record's stable ID before mutating,
// so a concurrent reorder cannot redirect the edit.
func (s *LibraryService) EditBook(ctx context.Context, index int, draft *domain.BookDraft) (*domain.Book, error) {
	book, err := s.library.At(index)
	if err != nil {
		return nil, err
	}
	if draft.CoverImage != nil {
		if _, err := media.Inspect(draft.CoverImage); err != nil {
			return nil, err
		}
	}
	return s.library.Update(book.ID, draft)
}

// EditBookByID replaces the mutable fields of the record with the given ID.
func (s *LibraryService) EditBookByID(ctx context.Context, bookID string, draft *domain.BookDraft) (*domain.Book, error) {
	if draft.CoverImage != nil {
		if _, err := media.Inspect(draft.CoverImage); err != nil {
			return nil, err
		}
	}
	return s.library.Update(bookID, draft)
}

// RemoveBook deletes every record whose title matches, ignoring case.
// Returns the number of records removed.
func (s *LibraryService) RemoveBook(ctx context.Context, title string) (int, error) {
	return s.library.RemoveByTitle(title)
}

// ListBooks returns the full collection in insertion order.
func (s *LibraryService) ListBooks(ctx context.Context) []domain.Book {
	return s.library.All()
}

// SearchBooks finds records whose chosen field contains the query,
// ignoring case. An empty query matches every record.
func (s *LibraryService) SearchBooks(ctx context.Context, q string, field query.Field) ([]domain.Book, error) {
	return query.Search(s.library.All(), q, field)
}

// FilterBooks narrows the collection by the given predicates. Absent
// predicates are skipped.
func (s *LibraryService) FilterBooks(ctx context.Context, filters query.Filters) []domain.Book {
	return query.Filter(s.library.All(), filters)
}

// GetStatistics reports the headline collection numbers.
func (s *LibraryService) GetStatistics(ctx context.Context) stats.Summary {
	return stats.Summarize(s.library.All())
}

// GenreDistribution reports tag occurrence counts across the collection.
func (s *LibraryService) GenreDistribution(ctx context.Context) map[string]int {
	return stats.GenreDistribution(s.library.All())
}

// YearDistribution reports record counts per publication year, ascending.
func (s *LibraryService) YearDistribution(ctx context.Context) []stats.YearCount {
	return stats.YearDistribution(s.library.All())
}

// SaveLibrary forces a write of the current collection to disk.
func (s *LibraryService) SaveLibrary(ctx context.Context) error {
	return s.library.Save()
}

// LoadLibrary replaces the in-memory collection with the persisted one,
// applying pending migrations. On failure the in-memory state is
// untouched.
func (s *LibraryService) LoadLibrary(ctx context.Context) error {
	return s.library.Load()
}

// Export writes a read-only projection of the collection to w.
func (s *LibraryService) Export(ctx context.Context, w io.Writer, format export.Format) error {
	books := s.library.All()
	if err := export.Write(w, books, format); err != nil {
		return err
	}
	s.logger.Info("exported library", "format", format, "count", len(books))
	return nil
}

// CoverPlaceholder computes a BlurHash placeholder for the record at the
// given index. Records without a cover get a NotFound error.
func (s *LibraryService) CoverPlaceholder(ctx context.Context, index int) (string, error) {
	book, err := s.library.At(index)
	if err != nil {
		return "", err
	}
	if !book.HasCover() {
		return "", errors.NotFoundf("book %q has no cover image", book.Title)
	}
	return media.ComputeBlurHash(book.CoverImage)
}
