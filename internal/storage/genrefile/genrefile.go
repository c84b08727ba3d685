// Package genrefile stores the genre registry as an ordered name → color document.
//
// Paths ending in .yaml or .yml are written as a YAML mapping; anything else
// is a JSON object indented with four spaces. Key order in the file is the
// registry order.
package genrefile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"readinglog/internal/models"
	"readinglog/internal/storage"
)

// Format selects the document encoding
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the encoding from the file extension
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// File is a GenreStorage backed by one document
type File struct {
	path   string
	format Format
}

// New returns storage for the document at path
func New(path string) *File {
	return &File{path: path, format: FormatFor(path)}
}

// LoadGenres reads the registry. A missing file reports found=false.
func (f *File) LoadGenres(ctx context.Context) ([]models.GenreColor, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	var entries []models.GenreColor
	switch f.format {
	case FormatYAML:
		entries, err = DecodeYAML(data)
	default:
		entries, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	return entries, true, nil
}

// SaveGenres replaces the document with entries
func (f *File) SaveGenres(ctx context.Context, entries []models.GenreColor) error {
	return storage.ReplaceFile(f.path, func(w io.Writer) error {
		var (
			data []byte
			err  error
		)
		switch f.format {
		case FormatYAML:
			data, err = EncodeYAML(entries)
		default:
			data, err = EncodeJSON(entries)
		}
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
}

// EncodeJSON renders entries as a JSON object in order
func EncodeJSON(entries []models.GenreColor) ([]byte, error) {
	if len(entries) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, e := range entries {
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to encode genre %q: %w", e.Name, err)
		}
		value, err := json.Marshal(e.Color)
		if err != nil {
			return nil, fmt.Errorf("failed to encode color for %q: %w", e.Name, err)
		}
		buf.WriteString("    ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if i < len(entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// DecodeJSON reads a JSON object of string values keeping key order.
// A repeated key keeps its first position and takes the last value.
func DecodeJSON(data []byte) ([]models.GenreColor, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err == io.EOF {
		return []models.GenreColor{}, nil
	}
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	var acc accumulator
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected genre name, got %v", tok)
		}
		var color string
		if err := dec.Decode(&color); err != nil {
			return nil, fmt.Errorf("color for %q: %w", name, err)
		}
		acc.put(name, color)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return acc.entries, nil
}

// EncodeYAML renders entries as a YAML mapping in order
func EncodeYAML(entries []models.GenreColor) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Color},
		)
	}
	if len(entries) == 0 {
		mapping.Style = yaml.FlowStyle
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return nil, fmt.Errorf("failed to encode genres: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode genres: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeYAML reads a YAML mapping of scalar values keeping key order
func DecodeYAML(data []byte) ([]models.GenreColor, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return []models.GenreColor{}, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of genre to color", mapping.Line)
	}

	var acc accumulator
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: genre and color must be plain values", key.Line)
		}
		acc.put(key.Value, value.Value)
	}
	return acc.entries, nil
}

// accumulator collects entries in first-seen order
type accumulator struct {
	entries []models.GenreColor
	index   map[string]int
}

func (a *accumulator) put(name, color string) {
	if a.index == nil {
		a.index = make(map[string]int)
		a.entries = []models.GenreColor{}
	}
	if i, ok := a.index[name]; ok {
		a.entries[i].Color = color
		return
	}
	a.index[name] = len(a.entries)
	a.entries = append(a.entries, models.GenreColor{Name: name, Color: color})
}
