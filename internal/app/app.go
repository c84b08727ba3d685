package app

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"readinglog/internal/cli"
	"readinglog/internal/config"
	"readinglog/internal/genres"
	"readinglog/internal/records"
	"readinglog/internal/storage"
	"readinglog/internal/storage/csvfile"
	"readinglog/internal/storage/genrefile"
	"readinglog/internal/storage/stubs"
)

// App represents the application
type App struct {
	config *config.Config
	logger *zap.Logger
	books  storage.BookStorage
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	envErr := godotenv.Load()

	// Load configuration from environment variables
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	return NewWithConfig(cfg, logger), nil
}

// NewWithConfig creates an application from an explicit configuration
func NewWithConfig(cfg *config.Config, logger *zap.Logger) *App {
	return &App{config: cfg, logger: logger}
}

// newLogger builds a logger writing to stderr so it never mixes with command output
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.LogDev {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	return zapCfg.Build()
}

// Open implements cli.Opener. Paths from flags override the configured files.
func (a *App) Open(ctx context.Context, paths cli.Paths) (*cli.Services, error) {
	if paths.BooksFile != "" {
		a.config.BooksFile = paths.BooksFile
	}
	if paths.GenresFile != "" {
		a.config.GenresFile = paths.GenresFile
	}

	books, genreDB, err := a.initDatabase(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := genres.Load(ctx, genreDB, a.logger)
	if err != nil {
		return nil, err
	}

	return &cli.Services{
		Store:        records.New(books, a.logger),
		Registry:     registry,
		DefaultColor: a.config.DefaultColor,
	}, nil
}

// initDatabase opens the book table and the genre registry storage
func (a *App) initDatabase(ctx context.Context) (storage.BookStorage, storage.GenreStorage, error) {
	var (
		books   storage.BookStorage
		genreDB storage.GenreStorage
	)
	if a.config.UseMockDB {
		a.logger.Info("Using mock database")
		mock := stubs.NewMockDB()
		books, genreDB = mock, mock
	} else {
		a.logger.Debug("Opening storage",
			zap.String("books_file", a.config.BooksFile),
			zap.String("genres_file", a.config.GenresFile),
		)
		books = csvfile.New(a.config.BooksFile)
		genreDB = genrefile.New(a.config.GenresFile)
	}

	if err := books.Initialize(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize book storage: %w", err)
	}
	a.books = books
	return books, genreDB, nil
}

// Run executes one command line and shuts down
func (a *App) Run(ctx context.Context, args []string) error {
	rootCmd := cli.NewRootCommand(a)
	rootCmd.SetArgs(args)

	runErr := rootCmd.ExecuteContext(ctx)
	if runErr != nil {
		a.logger.Debug("Command failed", zap.Error(runErr))
	}
	if err := a.Shutdown(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// Shutdown closes storage and flushes the logger
func (a *App) Shutdown() error {
	var err error
	if a.books != nil {
		if err = a.books.Close(); err != nil {
			a.logger.Error("Error closing storage", zap.Error(err))
		}
	}

	// Sync on a stderr terminal returns EINVAL
	_ = a.logger.Sync()
	return err
}
