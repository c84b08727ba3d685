// Package csvfile stores the book table as a CSV file.
//
// The file always carries the header Title,Author,Pages,Genre,Date Finished.
// Reads and writes move the whole table; WriteAll replaces the file through a
// temporary file and rename. Two processes writing the same file race and the
// last writer wins.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	domainerrors "readinglog/internal/errors"
	"readinglog/internal/models"
	"readinglog/internal/storage"
)

// Column names of the book table
const (
	ColTitle        = "Title"
	ColAuthor       = "Author"
	ColPages        = "Pages"
	ColGenre        = "Genre"
	ColDateFinished = "Date Finished"
)

// Header is the canonical column set in file order
var Header = []string{ColTitle, ColAuthor, ColPages, ColGenre, ColDateFinished}

// Row is one decoded data row with its parse problems
type Row struct {
	// Line is the 1-based line number in the source, header included
	Line int
	Book models.Book
	// RawPages and RawDate hold the text as read
	RawPages string
	RawDate  string
	// PagesErr is set when RawPages is not a valid page count; Book.PagesUnknown is set then
	PagesErr error
	// DateInvalid is set when RawDate is non-empty but did not parse
	DateInvalid bool
}

// Decode reads CSV rows that carry at least the canonical columns.
// Extra columns are ignored. A header missing any required column fails
// with a validation error before any row is read. Header names are trimmed;
// data values are kept as written.
func Decode(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, domainerrors.ValidationWithDetails("missing required columns: file is empty", Header)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var missing []string
	for _, col := range Header {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, domainerrors.ValidationWithDetails(
			"missing required columns: "+strings.Join(missing, ", "), missing)
	}

	field := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		row := Row{
			Line:     line,
			RawPages: field(record, ColPages),
			RawDate:  field(record, ColDateFinished),
			Book: models.Book{
				Title:  field(record, ColTitle),
				Author: field(record, ColAuthor),
				Genre:  field(record, ColGenre),
			},
		}
		row.Book.Pages, row.PagesErr = models.ParsePages(row.RawPages)
		if row.PagesErr != nil {
			row.Book.Pages = 0
			row.Book.PagesUnknown = true
			row.Book.RawPages = row.RawPages
		}
		date, ok := models.ParseDate(row.RawDate)
		row.Book.DateFinished = date
		row.DateInvalid = !ok && strings.TrimSpace(row.RawDate) != ""

		rows = append(rows, row)
	}

	return rows, nil
}

// Encode writes the header and books to w
func Encode(w io.Writer, books []models.Book) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, b := range books {
		record := []string{b.Title, b.Author, b.PagesString(), b.Genre, b.DateString()}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// File is a BookStorage backed by one CSV file
type File struct {
	path string
}

// New returns storage for the CSV file at path
func New(path string) *File {
	return &File{path: path}
}

// Initialize creates the file with only the header when it does not exist
func (f *File) Initialize(ctx context.Context) error {
	_, err := os.Stat(f.path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	return f.WriteAll(ctx, nil)
}

// ReadAll loads every row. A missing file reads as an empty table.
// A page count that does not parse loads as unknown and keeps its text;
// unparseable dates load as absent.
func (f *File) ReadAll(ctx context.Context) ([]models.Book, error) {
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return []models.Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	rows, err := Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	books := make([]models.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.Book)
	}
	return books, nil
}

// WriteAll replaces the file with books
func (f *File) WriteAll(ctx context.Context, books []models.Book) error {
	return storage.ReplaceFile(f.path, func(w io.Writer) error {
		return Encode(w, books)
	})
}

// Close does nothing; the file is opened per operation
func (f *File) Close() error {
	return nil
}
