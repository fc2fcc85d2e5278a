package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"encoding/json/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/libkeeper/libkeeper/internal/domain"
	"github.com/libkeeper/libkeeper/internal/errors"
)

func exportBooks() []domain.Book {
	return []domain.Book{
		{
			ID:              "bk-1",
			Title:           "Dune",
			Author:          "Frank Herbert",
			PublicationYear: 1965,
			Genres:          []string{"Sci-Fi", "Adventure"},
			ReadStatus:      true,
			DateAdded:       "2024-01-15 10:30:00",
			Rating:          5,
			Review:          "A classic.",
		},
		{
			ID:              "bk-2",
			Title:           "Sapiens",
			Author:          "Yuval Noah Harari",
			PublicationYear: 2011,
			Genres:          []string{"Non-Fiction"},
			DateAdded:       "2024-02-01 09:00:00",
		},
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exportBooks(), FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, columns, records[0])
	assert.Equal(t, []string{
		"bk-1", "Dune", "Frank Herbert", "1965", "Sci-Fi, Adventure",
		"Read", "2024-01-15 10:30:00", "5", "A classic.",
	}, records[1])
	assert.Equal(t, "Unread", records[2][5])
	assert.Equal(t, "0", records[2][7])
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exportBooks(), FormatJSON))

	var decoded []domain.Book
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, exportBooks(), decoded)
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exportBooks(), FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	rows, err := f.GetRows("Library")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, columns, rows[0])
	assert.Equal(t, "Dune", rows[1][1])
	assert.Equal(t, "Sapiens", rows[2][1])
	assert.Equal(t, "Read", rows[1][5])
}

func TestWrite_EmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // Header only.
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, exportBooks(), Format("pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestWrite_DoesNotMutate(t *testing.T) {
	books := exportBooks()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, books, FormatCSV))
	assert.Equal(t, exportBooks(), books)
}
