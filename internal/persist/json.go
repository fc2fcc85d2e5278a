// Package persist reads and writes the library file, a single JSON document
// holding the full record sequence. Cover image bytes are stored as base64,
// which is how encoding/json represents []byte; older files written with a
// null or absent cover load cleanly.
package persist

import (
	"crypto/sha256"
	"log/slog"
	"os"
	"sync"

	"encoding/json/jsontext"
	"encoding/json/v2"

	"github.com/libkeeper/libkeeper/internal/domain"
	"github.com/libkeeper/libkeeper/internal/errors"
)

// fileIndent matches the indentation of library files written by earlier
// versions of the app.
const fileIndent = "    "

// FileStore persists the record sequence to a single JSON file on local disk.
type FileStore struct {
	path   string
	logger *slog.Logger

	// Checksum of the last successful Save, so watcher callbacks can tell
	// the store's own rename-into-place apart from an external edit.
	mu       sync.Mutex
	lastSum  [sha256.Size]byte
	hasSaved bool
}

// NewFileStore creates a FileStore for the given path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Path returns the library file path.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the library file is present on disk.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and decodes the full record sequence.
// Any read or decode failure is returned as a persistence error; the
// caller's in-memory state is never touched by this method.
func (s *FileStore) Load() ([]domain.Book, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodePersistence, "read library file %s", s.path)
	}

	var books []domain.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, errors.Wrapf(err, errors.CodePersistence, "decode library file %s", s.path)
	}

	s.logger.Debug("library file loaded", "path", s.path, "records", len(books))
	return books, nil
}

// Save serializes the full record sequence, overwriting the target file.
// Writes go to a temp file first and are moved into place with an atomic
// rename, so a failed save never leaves a truncated library behind.
func (s *FileStore) Save(books []domain.Book) error {
	data, err := json.Marshal(books, jsontext.WithIndent(fileIndent))
	if err != nil {
		return errors.Wrap(err, errors.CodePersistence, "encode library")
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return errors.Wrapf(err, errors.CodePersistence, "write library file %s", tmpPath)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, errors.CodePersistence, "replace library file %s", s.path)
	}

	s.mu.Lock()
	s.lastSum = sha256.Sum256(data)
	s.hasSaved = true
	s.mu.Unlock()

	s.logger.Debug("library file saved", "path", s.path, "records", len(books))
	return nil
}

// UnchangedSinceSave reports whether the file on disk is byte-identical to
// the last successful Save. Watcher callbacks use it to skip reloading the
// store's own writes, which land in the watched directory via rename.
func (s *FileStore) UnchangedSinceSave() bool {
	s.mu.Lock()
	hasSaved := s.hasSaved
	lastSum := s.lastSum
	s.mu.Unlock()

	if !hasSaved {
		return false
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	return sha256.Sum256(data) == lastSum
}
