package storage

import (
	"context"

	"readinglog/internal/models"
)

// BookStorage persists the whole book table.
// Every write replaces the stored table; there is no row-level update.
type BookStorage interface {
	// ReadAll returns every stored book in file order
	ReadAll(ctx context.Context) ([]models.Book, error)
	// WriteAll replaces the stored table with books
	WriteAll(ctx context.Context, books []models.Book) error

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}

// GenreStorage persists the ordered genre registry.
type GenreStorage interface {
	// LoadGenres returns the stored entries in order.
	// found is false when nothing has been stored yet.
	LoadGenres(ctx context.Context) (entries []models.GenreColor, found bool, err error)
	// SaveGenres replaces the stored registry with entries
	SaveGenres(ctx context.Context, entries []models.GenreColor) error
}
