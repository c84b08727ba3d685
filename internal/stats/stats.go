// Package stats derives chart-ready series from the book table.
//
// Every function works on a slice of books and returns plain data shapes
// (month → value, month × genre → value, and so on). Drawing is left to the
// caller. Genres are grouped by their normalized form; aggregations keyed by
// time drop books without a finish date.
package stats

import (
	"sort"
	"strings"

	"readinglog/internal/genres"
	"readinglog/internal/models"
)

// GenreLookup is the part of the genre registry the aggregations need
type GenreLookup interface {
	Names() []string
	ColorFor(genre, fallback string) string
}

// PagesByMonth sums pages per finish month in chronological order.
// When genreFilter is non-empty only books of that genre are counted,
// compared case-insensitively. Books with an unknown page count are skipped.
func PagesByMonth(books []models.Book, genreFilter string) []models.MonthTotal {
	if strings.TrimSpace(genreFilter) != "" {
		books = FilterByGenre(books, genreFilter)
	}

	totals := make(map[models.Month]int)
	for _, b := range books {
		if !b.HasDate() || !b.HasPages() {
			continue
		}
		totals[models.MonthOf(*b.DateFinished)] += b.Pages
	}

	series := make([]models.MonthTotal, 0, len(totals))
	for m, pages := range totals {
		series = append(series, models.MonthTotal{Month: m, Pages: pages})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month.Before(series[j].Month)
	})
	return series
}

// PagesByMonthAndGenre sums pages per finish month and normalized genre.
// With a registry, only registered genres are kept and columns follow the
// registry order. With a nil registry every genre is kept in alphabetical
// order. Only genres that occur in the data become columns; missing cells are 0.
func PagesByMonthAndGenre(books []models.Book, registry GenreLookup) models.MonthGenreTable {
	var allowed map[string]bool
	if registry != nil {
		allowed = make(map[string]bool)
		for _, name := range registry.Names() {
			allowed[name] = true
		}
	}

	cells := make(map[models.Month]map[string]int)
	present := make(map[string]bool)
	for _, b := range books {
		if !b.HasDate() || !b.HasPages() {
			continue
		}
		genre := genres.Normalize(b.Genre)
		if genre == "" {
			continue
		}
		if allowed != nil && !allowed[genre] {
			continue
		}
		m := models.MonthOf(*b.DateFinished)
		if cells[m] == nil {
			cells[m] = make(map[string]int)
		}
		cells[m][genre] += b.Pages
		present[genre] = true
	}

	table := models.MonthGenreTable{
		Months: sortedMonths(cells),
		Genres: columnOrder(present, registry),
	}
	table.Pages = make([][]int, len(table.Months))
	for i, m := range table.Months {
		row := make([]int, len(table.Genres))
		for j, g := range table.Genres {
			row[j] = cells[m][g]
		}
		table.Pages[i] = row
	}
	return table
}

// GenreDistribution counts books per normalized genre, most common first.
// Registry membership and finish dates are not required.
func GenreDistribution(books []models.Book) []models.GenreCount {
	counts := make(map[string]int)
	for _, b := range books {
		genre := genres.Normalize(b.Genre)
		if genre == "" {
			continue
		}
		counts[genre]++
	}

	dist := make([]models.GenreCount, 0, len(counts))
	for g, n := range counts {
		dist = append(dist, models.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Genre < dist[j].Genre
	})
	return dist
}

// AvgPagesByGenrePerQuarter averages pages per finish quarter and normalized
// genre. Quarters are chronological, genres alphabetical, empty cells 0.
// Books with an unknown page count do not enter the mean.
func AvgPagesByGenrePerQuarter(books []models.Book) models.QuarterGenreTable {
	type acc struct{ sum, n int }
	cells := make(map[models.Quarter]map[string]*acc)
	present := make(map[string]bool)

	for _, b := range books {
		if !b.HasDate() || !b.HasPages() {
			continue
		}
		genre := genres.Normalize(b.Genre)
		if genre == "" {
			continue
		}
		q := models.QuarterOf(*b.DateFinished)
		if cells[q] == nil {
			cells[q] = make(map[string]*acc)
		}
		a := cells[q][genre]
		if a == nil {
			a = &acc{}
			cells[q][genre] = a
		}
		a.sum += b.Pages
		a.n++
		present[genre] = true
	}

	table := models.QuarterGenreTable{Genres: columnOrder(present, nil)}
	for q := range cells {
		table.Quarters = append(table.Quarters, q)
	}
	sort.Slice(table.Quarters, func(i, j int) bool {
		return table.Quarters[i].Before(table.Quarters[j])
	})

	table.Average = make([][]float64, len(table.Quarters))
	for i, q := range table.Quarters {
		row := make([]float64, len(table.Genres))
		for j, g := range table.Genres {
			if a := cells[q][g]; a != nil {
				row[j] = float64(a.sum) / float64(a.n)
			}
		}
		table.Average[i] = row
	}
	return table
}

func sortedMonths[V any](cells map[models.Month]V) []models.Month {
	months := make([]models.Month, 0, len(cells))
	for m := range cells {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})
	return months
}

// columnOrder lists present genres in registry order, or alphabetically without one
func columnOrder(present map[string]bool, registry GenreLookup) []string {
	cols := make([]string, 0, len(present))
	if registry != nil {
		for _, name := range registry.Names() {
			if present[name] {
				cols = append(cols, name)
			}
		}
		return cols
	}
	for g := range present {
		cols = append(cols, g)
	}
	sort.Strings(cols)
	return cols
}
