package genres

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	domainerrors "readinglog/internal/errors"
	"readinglog/internal/models"
	"readinglog/internal/storage"
	"readinglog/internal/validation"
)

// DefaultEntries seed a registry that has never been saved
var DefaultEntries = []models.GenreColor{
	{Name: "Fantasy", Color: "purple"},
	{Name: "Science Fiction", Color: "blue"},
	{Name: "Romance", Color: "red"},
}

// Registry is the ordered genre → color mapping.
// Every mutation is saved before it becomes visible; a failed save leaves the
// registry as it was.
type Registry struct {
	mu        sync.RWMutex
	entries   []models.GenreColor
	db        storage.GenreStorage
	validator *validation.Validator
	logger    *zap.Logger
}

// Load reads the registry from db, falling back to DefaultEntries when
// nothing has been stored. The defaults are not written until the first change.
func Load(ctx context.Context, db storage.GenreStorage, logger *zap.Logger) (*Registry, error) {
	entries, found, err := db.LoadGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load genres: %w", err)
	}
	if !found {
		logger.Debug("No stored genre registry, using defaults", zap.Int("count", len(DefaultEntries)))
		entries = append([]models.GenreColor(nil), DefaultEntries...)
	}

	return &Registry{
		entries:   entries,
		db:        db,
		validator: validation.New(),
		logger:    logger,
	}, nil
}

// Entries returns a copy of the registry in order
func (r *Registry) Entries() []models.GenreColor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.GenreColor, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the genre names in order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Has reports whether name is registered, comparing case-sensitively
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexOf(name) >= 0
}

// ColorFor returns the color registered for genre, or fallback
func (r *Registry) ColorFor(genre, fallback string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(genre); i >= 0 {
		return r.entries[i].Color
	}
	return fallback
}

// Add appends a genre at the end of the order
func (r *Registry) Add(ctx context.Context, name, color string) error {
	entry := models.GenreColor{Name: strings.TrimSpace(name), Color: strings.TrimSpace(color)}
	if err := r.validator.Validate(entry); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(entry.Name); i >= 0 {
		return domainerrors.AlreadyExistsf("genre %q already exists with color %s", entry.Name, r.entries[i].Color)
	}

	next := append(r.snapshot(), entry)
	if err := r.commit(ctx, next); err != nil {
		return err
	}

	r.logger.Info("Genre added", zap.String("genre", entry.Name), zap.String("color", entry.Color))
	return nil
}

// Rename changes a genre's name in place, keeping its color and position
func (r *Registry) Rename(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domainerrors.Validationf("new genre name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(oldName)
	if i < 0 {
		return domainerrors.NotFoundf("genre %q not found", oldName)
	}
	if r.indexOf(newName) >= 0 {
		return domainerrors.AlreadyExistsf("genre %q already exists", newName)
	}

	next := r.snapshot()
	next[i].Name = newName
	if err := r.commit(ctx, next); err != nil {
		return err
	}

	r.logger.Info("Genre renamed", zap.String("from", oldName), zap.String("to", newName))
	return nil
}

// Delete removes a genre. Callers confirm with the user first.
func (r *Registry) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(name)
	if i < 0 {
		return domainerrors.NotFoundf("genre %q not found", name)
	}

	next := r.snapshot()
	next = append(next[:i], next[i+1:]...)
	if err := r.commit(ctx, next); err != nil {
		return err
	}

	r.logger.Info("Genre deleted", zap.String("genre", name))
	return nil
}

// Reorder rearranges the registry so that position k holds the entry that was
// at order[k]. order must hold every current 0-based index exactly once.
func (r *Registry) Reorder(ctx context.Context, order []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := checkPermutation(order, len(r.entries)); err != nil {
		return err
	}

	next := make([]models.GenreColor, len(order))
	for k, i := range order {
		next[k] = r.entries[i]
	}
	if err := r.commit(ctx, next); err != nil {
		return err
	}

	r.logger.Info("Genres reordered", zap.Ints("order", order))
	return nil
}

func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return domainerrors.Validationf("order must list each of the %d genres exactly once, got %d positions", n, len(order))
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n {
			return domainerrors.Validationf("position %d is out of range", i+1)
		}
		if seen[i] {
			return domainerrors.Validationf("position %d appears more than once", i+1)
		}
		seen[i] = true
	}
	return nil
}

// commit saves next and swaps it in. Callers hold r.mu.
func (r *Registry) commit(ctx context.Context, next []models.GenreColor) error {
	if err := r.db.SaveGenres(ctx, next); err != nil {
		r.logger.Error("Failed to save genres", zap.Error(err))
		return fmt.Errorf("failed to save genres: %w", err)
	}
	r.entries = next
	return nil
}

func (r *Registry) snapshot() []models.GenreColor {
	out := make([]models.GenreColor, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Registry) indexOf(name string) int {
	for i, e := range r.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}
