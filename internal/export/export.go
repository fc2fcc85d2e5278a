// Package export writes read-only projections of the collection in
// interchange formats. Exports never mutate the collection.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"encoding/json/v2"
	"encoding/json/jsontext"

	"github.com/xuri/excelize/v2"

	"github.com/libkeeper/libkeeper/internal/domain"
	"github.com/libkeeper/libkeeper/internal/errors"
)

// Format identifies an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// columns is the tabular header shared by the CSV and spreadsheet formats.
// Cover bytes are omitted from tabular exports; the JSON format carries
// the full record including the cover.
var columns = []string{
	"ID", "Title", "Author", "Publication Year", "Genres",
	"Read Status", "Date Added", "Rating", "Review",
}

// Write renders the books in the given format. The books slice is not
// modified.
func Write(w io.Writer, books []domain.Book, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, books)
	case FormatJSON:
		return writeJSON(w, books)
	case FormatXLSX:
		return writeXLSX(w, books)
	default:
		return errors.Validationf("unknown export format %q", format)
	}
}

func writeJSON(w io.Writer, books []domain.Book) error {
	if err := json.MarshalWrite(w, books, jsontext.WithIndent("    ")); err != nil {
		return errors.Persistencef("write json export: %v", err)
	}
	return nil
}

func writeCSV(w io.Writer, books []domain.Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return errors.Persistencef("write csv header: %v", err)
	}
	for i := range books {
		if err := cw.Write(row(&books[i])); err != nil {
			return errors.Persistencef("write csv row: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Persistencef("flush csv export: %v", err)
	}
	return nil
}

func writeXLSX(w io.Writer, books []domain.Book) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // In-memory workbook, nothing to recover

	const sheet = "Library"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Persistencef("rename sheet: %v", err)
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.Persistencef("resolve header cell: %v", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return errors.Persistencef("write header cell: %v", err)
		}
	}

	for i := range books {
		for col, value := range row(&books[i]) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return errors.Persistencef("resolve cell: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return errors.Persistencef("write cell: %v", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Persistencef("write spreadsheet export: %v", err)
	}
	return nil
}

func row(b *domain.Book) []string {
	status := "Unread"
	if b.ReadStatus {
		status = "Read"
	}
	return []string{
		b.ID,
		b.Title,
		b.Author,
		strconv.Itoa(b.PublicationYear),
		strings.Join(b.Genres, ", "),
		status,
		b.DateAdded,
		strconv.Itoa(b.Rating),
		b.Review,
	}
}
