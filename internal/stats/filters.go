package stats

import (
	domainerrors "readinglog/internal/errors"
	"readinglog/internal/genres"
	"readinglog/internal/models"
)

// FilterByGenre keeps books whose genre matches genre ignoring case and surrounding space
func FilterByGenre(books []models.Book, genre string) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if genres.Matches(b.Genre, genre) {
			out = append(out, b)
		}
	}
	return out
}

// FilterByYearQuarter keeps books finished in year and, when quarter is
// non-zero, in that calendar quarter. Quarter must be 0 or 1–4.
// Books without a finish date never match.
func FilterByYearQuarter(books []models.Book, year, quarter int) ([]models.Book, error) {
	if err := CheckQuarter(quarter); err != nil {
		return nil, err
	}

	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if !b.HasDate() || b.DateFinished.Year() != year {
			continue
		}
		if quarter != 0 && models.QuarterOf(*b.DateFinished).Q != quarter {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// CheckQuarter accepts 0 (whole year) or a calendar quarter 1-4
func CheckQuarter(quarter int) error {
	if quarter < 0 || quarter > 4 {
		return domainerrors.ValidationWithDetails("quarter must be between 1 and 4", map[string]int{"quarter": quarter})
	}
	return nil
}
