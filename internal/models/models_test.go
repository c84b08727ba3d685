package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2024-01-15", "2024-01-15", true},
		{" 2024-01-15 ", "2024-01-15", true},
		{"2024-01-15 00:00:00", "2024-01-15", true},
		{"2024-01-15T10:30:00Z", "2024-01-15", true},
		{"2024/02/29", "2024-02-29", true},
		{"2024-3-5", "2024-03-05", true},
		{"12/31/2023", "2023-12-31", true},
		{"2023-02-30", "", false},
		{"yesterday", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseDate(tc.input)
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.Format(DateLayout))
		})
	}
}

func TestParsePages(t *testing.T) {
	testCases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"412", 412, false},
		{" 0 ", 0, false},
		{"280.0", 280, false},
		{"12.5", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParsePages(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBookEqual(t *testing.T) {
	d1 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	a := Book{Title: "Dune", Author: "Herbert", Pages: 412, Genre: "Science Fiction", DateFinished: &d1}
	b := Book{Title: "Dune", Author: "Herbert", Pages: 412, Genre: "Science Fiction", DateFinished: &d2}

	assert.True(t, a.Equal(b))

	b.DateFinished = nil
	assert.False(t, a.Equal(b))

	a.DateFinished = nil
	assert.True(t, a.Equal(b))

	b.Genre = "science fiction"
	assert.False(t, a.Equal(b))
}

func TestUnknownPages(t *testing.T) {
	known := Book{Title: "Emma", Author: "Austen", Genre: "Romance"}
	blank := Book{Title: "Emma", Author: "Austen", Genre: "Romance", PagesUnknown: true}
	text := Book{Title: "Emma", Author: "Austen", Genre: "Romance", PagesUnknown: true, RawPages: "lots"}

	assert.True(t, known.HasPages())
	assert.Equal(t, "0", known.PagesString())
	assert.False(t, blank.HasPages())
	assert.Equal(t, "", blank.PagesString())
	assert.Equal(t, "lots", text.PagesString())

	assert.False(t, known.Equal(blank), "an unknown page count is not zero")
	assert.False(t, blank.Equal(text))
	assert.Equal(t, blank.Key(), Book{Title: "Emma", Author: "Austen", Genre: "Romance", PagesUnknown: true}.Key())

	text.SetPages(280)
	assert.True(t, text.HasPages())
	assert.Equal(t, "280", text.PagesString())
	assert.Empty(t, text.RawPages)
}

func TestBuckets(t *testing.T) {
	d := time.Date(2024, 8, 3, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, Month{Year: 2024, Month: time.August}, MonthOf(d))
	assert.Equal(t, "2024-08", MonthOf(d).String())
	assert.Equal(t, Quarter{Year: 2024, Q: 3}, QuarterOf(d))
	assert.Equal(t, "2024Q3", QuarterOf(d).String())

	assert.True(t, Month{2023, time.December}.Before(Month{2024, time.January}))
	assert.False(t, Month{2024, time.February}.Before(Month{2024, time.January}))
	assert.True(t, Quarter{2024, 1}.Before(Quarter{2024, 2}))

	out, err := json.Marshal(MonthTotal{Month: MonthOf(d), Pages: 10})
	require.NoError(t, err)
	assert.JSONEq(t, `{"month":"2024-08","pages":10}`, string(out))
}
