package stubs

import (
	"context"
	"sync"

	"readinglog/internal/models"
)

// MockDB is an in-memory implementation of the storage interfaces for testing
type MockDB struct {
	mu          sync.RWMutex
	books       []models.Book
	genres      []models.GenreColor
	genresSaved bool

	// Writes counts WriteAll calls
	Writes int
	// FailWrites makes every write return this error when set
	FailWrites error
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		books: make([]models.Book, 0),
	}
}

// Initialize is a no-op; the mock starts empty
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// Seed replaces the stored books without counting a write
func (m *MockDB) Seed(books ...models.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.books = cloneBooks(books)
}

// ReadAll returns a copy of the stored books
func (m *MockDB) ReadAll(ctx context.Context) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return cloneBooks(m.books), nil
}

// WriteAll replaces the stored books
func (m *MockDB) WriteAll(ctx context.Context, books []models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.books = cloneBooks(books)
	m.Writes++
	return nil
}

// LoadGenres returns the stored registry
func (m *MockDB) LoadGenres(ctx context.Context) ([]models.GenreColor, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.genresSaved {
		return nil, false, nil
	}
	entries := make([]models.GenreColor, len(m.genres))
	copy(entries, m.genres)
	return entries, true, nil
}

// SaveGenres replaces the stored registry
func (m *MockDB) SaveGenres(ctx context.Context, entries []models.GenreColor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.genres = make([]models.GenreColor, len(entries))
	copy(m.genres, entries)
	m.genresSaved = true
	return nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}

// cloneBooks copies the slice and the date pointers so callers never share state
func cloneBooks(books []models.Book) []models.Book {
	out := make([]models.Book, len(books))
	for i, b := range books {
		if b.DateFinished != nil {
			d := *b.DateFinished
			b.DateFinished = &d
		}
		out[i] = b
	}
	return out
}
