package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Default file names, relative to the working directory
const (
	DefaultBooksFile  = "book_log.csv"
	DefaultGenresFile = "genre_colors.json"
)

// Config holds the application configuration
type Config struct {
	// Storage locations
	BooksFile  string
	GenresFile string

	// DefaultColor is used for genres missing from the registry
	DefaultColor string

	// Logging
	LogLevel zapcore.Level
	LogDev   bool // If true, use the human-readable development encoder

	UseMockDB bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	config.BooksFile = os.Getenv("READINGLOG_BOOKS_FILE")
	if config.BooksFile == "" {
		config.BooksFile = DefaultBooksFile
	}

	config.GenresFile = os.Getenv("READINGLOG_GENRES_FILE")
	if config.GenresFile == "" {
		config.GenresFile = DefaultGenresFile
	}

	config.DefaultColor = strings.TrimSpace(os.Getenv("READINGLOG_DEFAULT_COLOR"))
	if config.DefaultColor == "" {
		config.DefaultColor = "gray"
	}

	// Log level (default: warn, so command output is not interleaved with info logs)
	config.LogLevel = zapcore.WarnLevel
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		level, err := zapcore.ParseLevel(levelStr)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		config.LogLevel = level
	}
	config.LogDev = os.Getenv("LOG_DEV") == "true"

	// Use Mock DB (default: false). Nothing is persisted across runs.
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"

	return config, nil
}
