// Package records owns the book table: adding, importing, editing and deleting rows.
//
// Every mutating call reads the whole table from storage, applies the change
// and writes the whole table back. Nothing is cached between calls, so the
// table on disk is always the source of truth for a single process.
package records

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	domainerrors "readinglog/internal/errors"
	"readinglog/internal/models"
	"readinglog/internal/storage"
	"readinglog/internal/storage/csvfile"
	"readinglog/internal/validation"
)

// Input carries the raw text of a new book as entered by the user
type Input struct {
	Title        string
	Author       string
	Pages        string
	Genre        string
	DateFinished string
}

// Patch holds the fields an edit replaces. Nil or blank fields are kept.
type Patch struct {
	Title        *string
	Author       *string
	Pages        *string
	Genre        *string
	DateFinished *string
}

// IsEmpty reports whether the patch would change nothing
func (p Patch) IsEmpty() bool {
	for _, f := range []*string{p.Title, p.Author, p.Pages, p.Genre, p.DateFinished} {
		if f != nil && strings.TrimSpace(*f) != "" {
			return false
		}
	}
	return true
}

// Warning describes a field that was not applied as given
type Warning struct {
	// Row is the 0-based table position, or the source line for imports
	Row     int
	Field   string
	Value   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %q: %s", w.Field, w.Value, w.Message)
}

// AppendResult is returned by Append
type AppendResult struct {
	Index    int
	Book     models.Book
	Warnings []Warning
}

// EditResult is returned by Edit
type EditResult struct {
	Book     models.Book
	Changed  []string
	Warnings []Warning
}

// ImportResult summarises an import
type ImportResult struct {
	// Read is the number of data rows found in the source
	Read int
	// Added is how many rows the table grew by
	Added int
	// Duplicates is how many rows were dropped as exact copies of another row
	Duplicates int
	// Skipped rows had an unusable page count
	Skipped  int
	Warnings []Warning
}

// Listing is a snapshot of the table for display
type Listing struct {
	Books []models.Book
	// Warnings name rows whose stored page count is unknown
	Warnings []Warning
}

// Empty reports whether there are no books to show
func (l Listing) Empty() bool {
	return len(l.Books) == 0
}

// Store is the record store service
type Store struct {
	mu        sync.Mutex
	db        storage.BookStorage
	validator *validation.Validator
	logger    *zap.Logger
}

// New creates a record store over db
func New(db storage.BookStorage, logger *zap.Logger) *Store {
	return &Store{
		db:        db,
		validator: validation.New(),
		logger:    logger,
	}
}

// Load returns every book in table order, creating empty storage if needed
func (s *Store) Load(ctx context.Context) ([]models.Book, error) {
	if err := s.db.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize book storage: %w", err)
	}
	books, err := s.db.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	for i, b := range books {
		if !b.HasPages() {
			s.logger.Warn("Stored page count is not a number",
				zap.Int("row", i), zap.String("title", b.Title), zap.String("pages", b.RawPages))
		}
	}
	return books, nil
}

// PageWarnings reports each book whose page count is unknown
func PageWarnings(books []models.Book) []Warning {
	var warnings []Warning
	for i, b := range books {
		if b.HasPages() {
			continue
		}
		warnings = append(warnings, Warning{
			Row:     i,
			Field:   csvfile.ColPages,
			Value:   b.RawPages,
			Message: "stored page count is not a number; left out of page totals until edited",
		})
	}
	return warnings
}

// List returns the table for display
func (s *Store) List(ctx context.Context) (Listing, error) {
	books, err := s.Load(ctx)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Books: books, Warnings: PageWarnings(books)}, nil
}

// Get returns the book at a 0-based position
func (s *Store) Get(ctx context.Context, index int) (models.Book, error) {
	books, err := s.Load(ctx)
	if err != nil {
		return models.Book{}, err
	}
	if index < 0 || index >= len(books) {
		return models.Book{}, domainerrors.OutOfRange(index, len(books))
	}
	return books[index], nil
}

// Append validates in and adds it to the end of the table.
// The page count must be a non-negative integer. A finish date that does not
// parse is stored as absent and reported as a warning.
func (s *Store) Append(ctx context.Context, in Input) (AppendResult, error) {
	book := models.Book{
		Title:  strings.TrimSpace(in.Title),
		Author: strings.TrimSpace(in.Author),
		Genre:  strings.TrimSpace(in.Genre),
	}

	pages, err := models.ParsePages(in.Pages)
	if err != nil {
		return AppendResult{}, domainerrors.ValidationWithDetails(err.Error(), map[string]string{"pages": err.Error()})
	}
	book.Pages = pages

	var warnings []Warning
	if date, ok := models.ParseDate(in.DateFinished); ok {
		book.DateFinished = date
	} else {
		msg := "unparsed date, stored without a finish date"
		if strings.TrimSpace(in.DateFinished) == "" {
			msg = "no date given, stored without a finish date"
		}
		warnings = append(warnings, Warning{
			Field:   csvfile.ColDateFinished,
			Value:   in.DateFinished,
			Message: msg,
		})
	}

	if err := s.validator.Validate(book); err != nil {
		return AppendResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.Load(ctx)
	if err != nil {
		return AppendResult{}, err
	}
	books = append(books, book)
	if err := s.save(ctx, books); err != nil {
		return AppendResult{}, err
	}

	index := len(books) - 1
	for i := range warnings {
		warnings[i].Row = index
	}

	s.logger.Info("Book added",
		zap.Int("row", index),
		zap.String("title", book.Title),
		zap.Int("pages", book.Pages),
		zap.String("date_finished", book.DateString()),
	)
	return AppendResult{Index: index, Book: book, Warnings: warnings}, nil
}

// ImportFile imports books from the CSV file at path
func (s *Store) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	result, err := s.Import(ctx, f)
	if err != nil {
		return result, fmt.Errorf("import %s: %w", path, err)
	}
	return result, nil
}

// Import merges CSV rows from r into the table.
// The source must carry all required columns or nothing is written. Dates are
// normalized; rows with an unusable page count are skipped. After merging,
// rows equal in every field to an earlier row are dropped, including
// duplicates already present in the table. Two genuinely different readings
// of the same book on the same day therefore collapse into one row.
func (s *Store) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	rows, err := csvfile.Decode(r)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Read: len(rows)}
	imported := make([]models.Book, 0, len(rows))
	for _, row := range rows {
		if row.PagesErr != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, Warning{
				Row:     row.Line,
				Field:   csvfile.ColPages,
				Value:   row.RawPages,
				Message: "row skipped: " + row.PagesErr.Error(),
			})
			continue
		}
		if row.DateInvalid {
			result.Warnings = append(result.Warnings, Warning{
				Row:     row.Line,
				Field:   csvfile.ColDateFinished,
				Value:   row.RawDate,
				Message: "unparsed date, imported without a finish date",
			})
		}
		imported = append(imported, row.Book)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Load(ctx)
	if err != nil {
		return result, err
	}

	combined := Dedupe(append(existing, imported...))
	result.Duplicates = len(existing) + len(imported) - len(combined)
	result.Added = len(combined) - len(existing)

	if err := s.save(ctx, combined); err != nil {
		return result, err
	}

	s.logger.Info("Books imported",
		zap.Int("read", result.Read),
		zap.Int("added", result.Added),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// Dedupe drops every book equal in all fields to an earlier one, keeping order
func Dedupe(books []models.Book) []models.Book {
	seen := make(map[string]struct{}, len(books))
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		key := b.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Edit replaces the supplied fields of the book at a 0-based position.
// A page count or date that does not parse keeps the current value and is
// reported as a warning; the remaining fields are still applied.
func (s *Store) Edit(ctx context.Context, index int, patch Patch) (EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.Load(ctx)
	if err != nil {
		return EditResult{}, err
	}
	if index < 0 || index >= len(books) {
		return EditResult{}, domainerrors.OutOfRange(index, len(books))
	}

	book := books[index]
	var result EditResult
	warn := func(field, value, msg string) {
		result.Warnings = append(result.Warnings, Warning{Row: index, Field: field, Value: value, Message: msg})
		s.logger.Warn("Edit field kept", zap.Int("row", index), zap.String("field", field), zap.String("value", value))
	}

	if v, ok := supplied(patch.Title); ok {
		book.Title = v
		result.Changed = append(result.Changed, csvfile.ColTitle)
	}
	if v, ok := supplied(patch.Author); ok {
		book.Author = v
		result.Changed = append(result.Changed, csvfile.ColAuthor)
	}
	if v, ok := supplied(patch.Pages); ok {
		if pages, err := models.ParsePages(v); err != nil {
			warn(csvfile.ColPages, v, "invalid page number, keeping original")
		} else {
			book.SetPages(pages)
			result.Changed = append(result.Changed, csvfile.ColPages)
		}
	}
	if v, ok := supplied(patch.Genre); ok {
		book.Genre = v
		result.Changed = append(result.Changed, csvfile.ColGenre)
	}
	if v, ok := supplied(patch.DateFinished); ok {
		if date, parsed := models.ParseDate(v); !parsed {
			warn(csvfile.ColDateFinished, v, "invalid date format, keeping original")
		} else {
			book.DateFinished = date
			result.Changed = append(result.Changed, csvfile.ColDateFinished)
		}
	}

	result.Book = book
	if book.Equal(books[index]) {
		result.Changed = nil
		return result, nil
	}

	books[index] = book
	if err := s.save(ctx, books); err != nil {
		return EditResult{}, err
	}

	s.logger.Info("Book updated", zap.Int("row", index), zap.Strings("fields", result.Changed))
	return result, nil
}

// Delete removes the book at a 0-based position; later rows move up by one
func (s *Store) Delete(ctx context.Context, index int) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.Load(ctx)
	if err != nil {
		return models.Book{}, err
	}
	if index < 0 || index >= len(books) {
		return models.Book{}, domainerrors.OutOfRange(index, len(books))
	}

	removed := books[index]
	books = append(books[:index], books[index+1:]...)
	if err := s.save(ctx, books); err != nil {
		return models.Book{}, err
	}

	s.logger.Info("Book deleted", zap.Int("row", index), zap.String("title", removed.Title))
	return removed, nil
}

func (s *Store) save(ctx context.Context, books []models.Book) error {
	if err := s.db.WriteAll(ctx, books); err != nil {
		s.logger.Error("Failed to save books", zap.Error(err), zap.Int("rows", len(books)))
		return fmt.Errorf("failed to save books: %w", err)
	}
	return nil
}

func supplied(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*v)
	return trimmed, trimmed != ""
}
