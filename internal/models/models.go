package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout used to store finish dates
const DateLayout = "2006-01-02"

// Book represents one logged book
type Book struct {
	Title        string     `json:"title" validate:"required"`
	Author       string     `json:"author" validate:"required"`
	Pages        int        `json:"pages" validate:"min=0"`
	Genre        string     `json:"genre" validate:"required"`
	DateFinished *time.Time `json:"date_finished,omitempty"`

	// PagesUnknown marks a stored page count that did not parse. Pages is 0
	// then and RawPages holds the cell text, which is written back unchanged.
	PagesUnknown bool   `json:"pages_unknown,omitempty"`
	RawPages     string `json:"raw_pages,omitempty"`
}

// HasPages reports whether the page count is known
func (b Book) HasPages() bool {
	return !b.PagesUnknown
}

// PagesString returns the page count as stored
func (b Book) PagesString() string {
	if b.PagesUnknown {
		return b.RawPages
	}
	return strconv.Itoa(b.Pages)
}

// SetPages records a known page count
func (b *Book) SetPages(pages int) {
	b.Pages = pages
	b.PagesUnknown = false
	b.RawPages = ""
}

// HasDate reports whether the finish date was parsed
func (b Book) HasDate() bool {
	return b.DateFinished != nil
}

// DateString returns the finish date in DateLayout, or "" when absent
func (b Book) DateString() string {
	if b.DateFinished == nil {
		return ""
	}
	return b.DateFinished.Format(DateLayout)
}

// Key joins every stored field; books with equal keys are exact duplicates
func (b Book) Key() string {
	return strings.Join([]string{b.Title, b.Author, b.PagesString(), b.Genre, b.DateString()}, "\x00")
}

// Equal reports whether every stored field of two books matches
func (b Book) Equal(o Book) bool {
	return b.Key() == o.Key()
}

// GenreColor is one entry of the genre registry
type GenreColor struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Color string `json:"color" yaml:"color" validate:"required"`
}

// Month is a (year, month) aggregation bucket
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the bucket containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m sorts before o
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText renders the bucket as YYYY-MM
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Quarter is a (year, quarter) aggregation bucket, Q in 1..4
type Quarter struct {
	Year int
	Q    int
}

// QuarterOf returns the bucket containing t
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// Before reports whether q sorts before o
func (q Quarter) Before(o Quarter) bool {
	if q.Year != o.Year {
		return q.Year < o.Year
	}
	return q.Q < o.Q
}

func (q Quarter) String() string {
	return fmt.Sprintf("%04dQ%d", q.Year, q.Q)
}

// MarshalText renders the bucket as YYYYQn
func (q Quarter) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// MonthTotal is one point of a pages-per-month series
type MonthTotal struct {
	Month Month `json:"month"`
	Pages int   `json:"pages"`
}

// GenreCount represents how many books belong to a genre
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// MonthGenreTable holds pages summed per month and genre.
// Pages[i][j] is the total for Months[i] and Genres[j].
type MonthGenreTable struct {
	Months []Month  `json:"months"`
	Genres []string `json:"genres"`
	Pages  [][]int  `json:"pages"`
}

// QuarterGenreTable holds the mean page count per quarter and genre.
// Average[i][j] is the mean for Quarters[i] and Genres[j], 0 when no book matched.
type QuarterGenreTable struct {
	Quarters []Quarter   `json:"quarters"`
	Genres   []string    `json:"genres"`
	Average  [][]float64 `json:"average"`
}
