package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainerrors "readinglog/internal/errors"
	"readinglog/internal/genres"
	"readinglog/internal/models"
	"readinglog/internal/records"
	"readinglog/internal/storage/stubs"
)

type staticOpener struct {
	svc   *Services
	paths []Paths
}

func (o *staticOpener) Open(ctx context.Context, paths Paths) (*Services, error) {
	o.paths = append(o.paths, paths)
	return o.svc, nil
}

type harness struct {
	t      *testing.T
	db     *stubs.MockDB
	opener *staticOpener
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := stubs.NewMockDB()
	registry, err := genres.Load(context.Background(), db, zap.NewNop())
	require.NoError(t, err)

	svc := &Services{
		Store:        records.New(db, zap.NewNop()),
		Registry:     registry,
		DefaultColor: "gray",
	}
	return &harness{t: t, db: db, opener: &staticOpener{svc: svc}}
}

// run executes one command line against a fresh command tree
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCommand(h.opener)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) seed() {
	h.t.Helper()
	h.mustRun("add", "--title", "Dune", "--author", "Herbert", "--pages", "412", "--genre", "Science Fiction", "--date", "2024-01-15")
	h.mustRun("add", "--title", "Emma", "--author", "Austen", "--pages", "280", "--genre", "Romance", "--date", "2024-01-20")
	h.mustRun("add", "--title", "Hobbit", "--author", "Tolkien", "--pages", "310", "--genre", "Fantasy", "--date", "2024-02-03")
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("list")
	assert.Equal(t, "No books found.\n", out)

	out = h.mustRun("add", "--title", "Dune", "--author", "Herbert", "--pages", "412", "--genre", "Science Fiction", "--date", "2024-01-15")
	assert.Contains(t, out, "Book added as #1.")

	out = h.mustRun("add", "--title", "Notes", "--author", "Anon", "--pages", "90", "--genre", "Essay")
	assert.Contains(t, out, "Warning: ")
	assert.Contains(t, out, "Book added as #2.")

	out = h.mustRun("list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "Dune")
	assert.Contains(t, lines[1], "2024-01-15")
	assert.Contains(t, lines[2], "Notes")
	assert.True(t, strings.HasSuffix(lines[2], "-"), "missing date is shown as a dash")
}

func TestAddRejectsBadPages(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "add", "--title", "Dune", "--author", "Herbert", "--pages", "abc", "--genre", "Science Fiction")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Equal(t, 2, domainerrors.CodeOf(err).ExitCode())
	assert.Equal(t, 0, h.db.Writes)
}

func TestAddRequiresFlags(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "add", "--title", "Dune")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestShowOutOfRange(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out := h.mustRun("show", "2")
	assert.Contains(t, out, "2. Emma by Austen (280 pages, Romance, finished: 2024-01-20)")

	_, err := h.run("", "show", "9")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrOutOfRange))
	assert.Equal(t, "invalid book number 9", err.Error())

	_, err = h.run("", "show", "x")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	h.seed()

	_, err := h.run("", "edit", "1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "an edit with no fields is rejected")

	out := h.mustRun("edit", "1", "--pages", "500")
	assert.Contains(t, out, "Book updated.")
	assert.Contains(t, out, "500 pages")

	out = h.mustRun("edit", "1", "--pages", "lots")
	assert.Contains(t, out, "Warning: Pages \"lots\": invalid page number, keeping original")
	assert.Contains(t, out, "Nothing changed.")
}

func TestDeleteConfirmation(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out, err := h.run("n\n", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion cancelled.")

	out, err = h.run("yes\n", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Book deleted.")

	h.mustRun("delete", "--yes", "1")
	out = h.mustRun("list")
	assert.Contains(t, out, "Hobbit")
	assert.NotContains(t, out, "Dune")
	assert.NotContains(t, out, "Emma")
}

func TestImport(t *testing.T) {
	h := newHarness(t)
	h.seed()

	path := filepath.Join(t.TempDir(), "other.csv")
	content := "Title,Author,Pages,Genre,Date Finished,Rating\n" +
		"Dune,Herbert,412,Science Fiction,2024-01-15,5\n" +
		"Solaris,Lem,204,Science Fiction,2024/03/02,4\n" +
		"Broken,Nobody,many,Fantasy,2024-03-05,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out := h.mustRun("import", path)
	assert.Contains(t, out, "Warning: line 4:")
	assert.Contains(t, out, "Import successful: 3 read, 1 added, 1 duplicates dropped, 1 skipped.")

	out = h.mustRun("show", "4")
	assert.Contains(t, out, "Solaris by Lem (204 pages, Science Fiction, finished: 2024-03-02)")
}

func TestStatsEmpty(t *testing.T) {
	h := newHarness(t)

	for _, sub := range []string{"monthly", "progress", "genres", "quarterly"} {
		out := h.mustRun("stats", sub)
		assert.Equal(t, "No data to analyze.\n", out, sub)
	}
}

func TestStatsMonthly(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out := h.mustRun("stats", "monthly")
	assert.Contains(t, out, "Pages Read Per Month (All Genres)")
	assert.Contains(t, out, "2024-01  692")
	assert.Contains(t, out, "2024-02  310")

	out = h.mustRun("stats", "monthly", "--genre", "science fiction", "--format", "json")
	var got monthlyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Science Fiction", got.Genre)
	assert.Equal(t, "blue", got.Color)
	require.Len(t, got.Series, 1)
	assert.Equal(t, "2024-01", got.Series[0].Month.String())
	assert.Equal(t, 412, got.Series[0].Pages)

	out = h.mustRun("stats", "monthly", "--genre", "Horror")
	assert.Contains(t, out, "No books found for genre: Horror")
}

func TestStatsProgressUsesRegistry(t *testing.T) {
	h := newHarness(t)
	h.seed()
	h.mustRun("add", "--title", "Essays", "--author", "Montaigne", "--pages", "100", "--genre", "Essay", "--date", "2024-02-10")

	out := h.mustRun("stats", "progress", "--format", "json")
	var got struct {
		Genres []string `json:"genres"`
		Pages  [][]int  `json:"pages"`
		Colors []string `json:"colors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Fantasy", "Science Fiction", "Romance"}, got.Genres)
	assert.Equal(t, []string{"purple", "blue", "red"}, got.Colors)
	assert.Equal(t, [][]int{{0, 412, 280}, {310, 0, 0}}, got.Pages)
}

func TestStatsGenres(t *testing.T) {
	h := newHarness(t)
	h.seed()
	h.mustRun("add", "--title", "Essays", "--author", "Montaigne", "--pages", "100", "--genre", "Essay", "--date", "2024-02-10")

	out := h.mustRun("stats", "genres")
	assert.Contains(t, out, "Overall Genre Distribution")
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "Essay")
	assert.Contains(t, out, "gray", "unregistered genres use the default color")
}

func TestStatsPeriod(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out := h.mustRun("stats", "period", "--year", "2024", "--quarter", "1")
	assert.Contains(t, out, "Genre Distribution - 2024 Q1")

	out = h.mustRun("stats", "period", "--year", "2023")
	assert.Contains(t, out, "No data found for 2023.")

	out = h.mustRun("stats", "period", "--year", "2024", "--chart", "bar")
	assert.Contains(t, out, "Pages per Genre by Month - 2024")
	assert.Contains(t, out, "Fantasy")

	_, err := h.run("", "stats", "period", "--year", "2024", "--quarter", "5")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = h.run("", "stats", "period", "--year", "2024", "--chart", "line")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestStatsPeriodChecksQuarterOnEmptyLog(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "stats", "period", "--year", "2024", "--quarter", "5")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Equal(t, 2, domainerrors.CodeOf(err).ExitCode())
	assert.NotContains(t, out, "No data to analyze.")
}

func TestListShowsUnknownPages(t *testing.T) {
	h := newHarness(t)
	h.db.Seed(
		models.Book{Title: "Dune", Author: "Herbert", Pages: 412, Genre: "Science Fiction"},
		models.Book{Title: "Emma", Author: "Austen", Genre: "Romance", PagesUnknown: true},
	)

	out := h.mustRun("list")
	assert.Contains(t, out, "Warning: book #2: Pages \"\": stored page count is not a number")
	assert.Contains(t, h.mustRun("show", "2"), "2. Emma by Austen (? pages, Romance, finished: -)")

	h.mustRun("edit", "2", "--pages", "280")
	out = h.mustRun("list")
	assert.NotContains(t, out, "Warning")
	assert.Contains(t, out, "280")
}

func TestStatsQuarterly(t *testing.T) {
	h := newHarness(t)
	h.seed()
	h.mustRun("add", "--title", "Foundation", "--author", "Asimov", "--pages", "255", "--genre", "Science Fiction", "--date", "2024-03-01")

	out := h.mustRun("stats", "quarterly")
	assert.Contains(t, out, "2024Q1")
	assert.Contains(t, out, "333.5")
}

func TestStatsUnknownFormat(t *testing.T) {
	h := newHarness(t)
	h.seed()

	_, err := h.run("", "stats", "monthly", "--format", "xml")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestGenreCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("genre", "list")
	assert.Contains(t, out, "1  Fantasy          purple")

	h.mustRun("genre", "add", "Mystery", "#2ca02c")
	_, err := h.run("", "genre", "add", "Mystery", "green")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	h.mustRun("genre", "rename", "Romance", "Love")
	out = h.mustRun("genre", "reorder", "4,3,2,1")
	assert.Contains(t, out, "1. Mystery\n2. Love\n3. Science Fiction\n4. Fantasy\n")

	_, err = h.run("", "genre", "reorder", "1,1,2,3")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	out, err = h.run("n\n", "genre", "delete", "Love")
	require.NoError(t, err)
	assert.Contains(t, out, "Deletion cancelled.")

	h.mustRun("genre", "delete", "-y", "Love")
	_, err = h.run("", "genre", "delete", "-y", "Love")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	out, err = h.run("y\n", "genre", "delete", "Horror")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
	assert.NotContains(t, out, "Are you sure", "unknown genres are rejected before asking")

	entries, found, err := h.db.LoadGenres(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, entries, 3)
}

func TestPathFlagsReachOpener(t *testing.T) {
	h := newHarness(t)

	h.mustRun("--books", "a.csv", "--genres", "g.yaml", "list")
	require.Len(t, h.opener.paths, 1)
	assert.Equal(t, Paths{BooksFile: "a.csv", GenresFile: "g.yaml"}, h.opener.paths[0])
}

func TestParseOrder(t *testing.T) {
	order, err := parseOrder("3, 1,2")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, order)

	_, err = parseOrder("1,b")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}
