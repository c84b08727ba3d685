package genrefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinglog/internal/models"
)

var sample = []models.GenreColor{
	{Name: "Romance", Color: "red"},
	{Name: "Fantasy", Color: "purple"},
	{Name: "Science Fiction", Color: "#1f77b4"},
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("genre_colors.json"))
	assert.Equal(t, FormatJSON, FormatFor("genres"))
	assert.Equal(t, FormatYAML, FormatFor("genres.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("GENRES.YML"))
}

func TestEncodeJSON(t *testing.T) {
	data, err := EncodeJSON(sample)
	require.NoError(t, err)

	want := "{\n" +
		"    \"Romance\": \"red\",\n" +
		"    \"Fantasy\": \"purple\",\n" +
		"    \"Science Fiction\": \"#1f77b4\"\n" +
		"}\n"
	assert.Equal(t, want, string(data))

	empty, err := EncodeJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(empty))
}

func TestDecodeJSON(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		entries, err := DecodeJSON([]byte(`{"Romance": "red", "Fantasy": "purple", "Science Fiction": "#1f77b4"}`))
		require.NoError(t, err)
		assert.Equal(t, sample, entries)
	})

	t.Run("repeated key keeps first position", func(t *testing.T) {
		entries, err := DecodeJSON([]byte(`{"Fantasy": "purple", "Romance": "red", "Fantasy": "green"}`))
		require.NoError(t, err)
		assert.Equal(t, []models.GenreColor{
			{Name: "Fantasy", Color: "green"},
			{Name: "Romance", Color: "red"},
		}, entries)
	})

	t.Run("empty document", func(t *testing.T) {
		entries, err := DecodeJSON([]byte(""))
		require.NoError(t, err)
		assert.Empty(t, entries)

		entries, err = DecodeJSON([]byte("{}"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`["Fantasy"]`))
		assert.Error(t, err)
	})

	t.Run("non-string color", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`{"Fantasy": 3}`))
		assert.Error(t, err)
	})
}

func TestYAMLRoundTrip(t *testing.T) {
	data, err := EncodeYAML(sample)
	require.NoError(t, err)
	assert.Equal(t, "Romance: red\nFantasy: purple\nScience Fiction: '#1f77b4'\n", string(data))

	entries, err := DecodeYAML(data)
	require.NoError(t, err)
	assert.Equal(t, sample, entries)
}

func TestDecodeYAML(t *testing.T) {
	entries, err := DecodeYAML([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = DecodeYAML([]byte("- Fantasy\n- Romance\n"))
	assert.Error(t, err)

	_, err = DecodeYAML([]byte("Fantasy:\n  - purple\n"))
	assert.Error(t, err)
}

func TestFileLoadSave(t *testing.T) {
	for _, name := range []string{"genre_colors.json", "genres.yaml"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), name)
			f := New(path)

			_, found, err := f.LoadGenres(ctx)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, f.SaveGenres(ctx, sample))

			entries, found, err := f.LoadGenres(ctx)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, sample, entries)
		})
	}
}

func TestFileLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genre_colors.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := New(path).LoadGenres(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
