// Package cli is the command-line front end of the reading log.
//
// Commands parse user input, call the record store, genre registry and stats
// functions, and print the results. No reading-log rules live here.
package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	domainerrors "readinglog/internal/errors"
	"readinglog/internal/genres"
	"readinglog/internal/records"
)

// Paths overrides the configured storage locations; empty fields keep the configuration
type Paths struct {
	BooksFile  string
	GenresFile string
}

// Services are the components a command works with
type Services struct {
	Store        *records.Store
	Registry     *genres.Registry
	DefaultColor string
}

// Opener opens storage and services once flags are known
type Opener interface {
	Open(ctx context.Context, paths Paths) (*Services, error)
}

type rootOptions struct {
	paths  Paths
	opener Opener
	svc    *Services
}

// services opens the services on first use
func (o *rootOptions) services(cmd *cobra.Command) (*Services, error) {
	if o.svc != nil {
		return o.svc, nil
	}
	svc, err := o.opener.Open(cmd.Context(), o.paths)
	if err != nil {
		return nil, err
	}
	o.svc = svc
	return svc, nil
}

// NewRootCommand builds the full command tree
func NewRootCommand(opener Opener) *cobra.Command {
	opts := &rootOptions{opener: opener}

	rootCmd := &cobra.Command{
		Use:   "readinglog",
		Short: "Keep a log of the books you read",
		Long: `readinglog records the books you finish (title, author, pages, genre and
date) in a CSV file and summarises them: pages per month, genre
distribution and quarterly averages. Genre colors and their order are kept
in a separate JSON or YAML document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.paths.BooksFile, "books", "", "book log CSV file (default from READINGLOG_BOOKS_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.paths.GenresFile, "genres", "", "genre color file (default from READINGLOG_GENRES_FILE)")

	rootCmd.AddCommand(
		newAddCommand(opts),
		newListCommand(opts),
		newShowCommand(opts),
		newEditCommand(opts),
		newDeleteCommand(opts),
		newImportCommand(opts),
		newStatsCommand(opts),
		newGenreCommand(opts),
	)

	return rootCmd
}

// parseRow turns a 1-based row number into a 0-based index
func parseRow(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, domainerrors.Validationf("row number %q is not a number", arg)
	}
	return n - 1, nil
}

// parseOrder turns "3,1,2" into 0-based positions
func parseOrder(arg string) ([]int, error) {
	parts := strings.Split(arg, ",")
	order := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, domainerrors.Validationf("position %q is not a number", strings.TrimSpace(p))
		}
		order = append(order, n-1)
	}
	return order, nil
}

// rowError restates out-of-range errors with the 1-based numbers users type
func rowError(err error, index int) error {
	if domainerrors.Is(err, domainerrors.ErrOutOfRange) {
		return domainerrors.OutOfRangef("invalid book number %d", index+1)
	}
	return err
}
