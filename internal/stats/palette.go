package stats

import (
	"strings"

	"readinglog/internal/genres"
)

// Fallback colors used when a genre has no registered color
const (
	DefaultColor     = "gray"
	AllGenresColor   = "steelblue"
	SingleGenreColor = "darkorange"
)

// Palette returns one color per genre, in the same order
func Palette(names []string, registry GenreLookup, fallback string) []string {
	colors := make([]string, len(names))
	for i, name := range names {
		if registry == nil {
			colors[i] = fallback
			continue
		}
		colors[i] = registry.ColorFor(name, fallback)
	}
	return colors
}

// SeriesColor picks the bar color for a pages-per-month series.
// The unfiltered series uses AllGenresColor; a filtered one uses the
// registered color of the normalized genre, else SingleGenreColor.
func SeriesColor(genreFilter string, registry GenreLookup) string {
	if strings.TrimSpace(genreFilter) == "" {
		return AllGenresColor
	}
	if registry == nil {
		return SingleGenreColor
	}
	return registry.ColorFor(genres.Normalize(genreFilter), SingleGenreColor)
}
