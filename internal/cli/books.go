package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainerrors "readinglog/internal/errors"
	"readinglog/internal/records"
)

func newAddCommand(opts *rootOptions) *cobra.Command {
	var in records.Input

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a finished book",
		Example: `  readinglog add --title Dune --author "Frank Herbert" --pages 412 \
    --genre "Science Fiction" --date 2024-01-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}

			res, err := svc.Store.Append(cmd.Context(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printWarnings(out, res.Warnings)
			fmt.Fprintf(out, "Book added as #%d.\n", res.Index+1)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "book title")
	cmd.Flags().StringVar(&in.Author, "author", "", "author")
	cmd.Flags().StringVar(&in.Pages, "pages", "", "number of pages")
	cmd.Flags().StringVar(&in.Genre, "genre", "", "genre")
	cmd.Flags().StringVar(&in.DateFinished, "date", "", "date finished (YYYY-MM-DD)")
	for _, name := range []string{"title", "author", "pages", "genre"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show all books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}

			listing, err := svc.Store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if listing.Empty() {
				fmt.Fprintln(out, "No books found.")
				return nil
			}
			if err := printBooks(out, listing.Books); err != nil {
				return err
			}
			printRowWarnings(out, listing.Warnings)
			return nil
		},
	}
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show NUMBER",
		Short: "Show one book by its number in the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseRow(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}

			book, err := svc.Store.Get(cmd.Context(), index)
			if err != nil {
				return rowError(err, index)
			}
			printBook(cmd.OutOrStdout(), index, book)
			return nil
		},
	}
}

func newEditCommand(opts *rootOptions) *cobra.Command {
	var title, author, pages, genre, date string

	cmd := &cobra.Command{
		Use:   "edit NUMBER",
		Short: "Change fields of a book; omitted fields keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseRow(args[0])
			if err != nil {
				return err
			}

			var patch records.Patch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("author") {
				patch.Author = &author
			}
			if flags.Changed("pages") {
				patch.Pages = &pages
			}
			if flags.Changed("genre") {
				patch.Genre = &genre
			}
			if flags.Changed("date") {
				patch.DateFinished = &date
			}
			if patch.IsEmpty() {
				return domainerrors.Validationf("nothing to change: pass at least one of --title, --author, --pages, --genre, --date")
			}

			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}
			res, err := svc.Store.Edit(cmd.Context(), index, patch)
			if err != nil {
				return rowError(err, index)
			}

			out := cmd.OutOrStdout()
			printWarnings(out, res.Warnings)
			if len(res.Changed) == 0 {
				fmt.Fprintln(out, "Nothing changed.")
				return nil
			}
			fmt.Fprintln(out, "Book updated.")
			printBook(out, index, res.Book)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&author, "author", "", "new author")
	cmd.Flags().StringVar(&pages, "pages", "", "new page count")
	cmd.Flags().StringVar(&genre, "genre", "", "new genre")
	cmd.Flags().StringVar(&date, "date", "", "new date finished (YYYY-MM-DD)")

	return cmd
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete NUMBER",
		Aliases: []string{"rm"},
		Short:   "Delete a book by its number in the list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseRow(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}

			book, err := svc.Store.Get(cmd.Context(), index)
			if err != nil {
				return rowError(err, index)
			}

			out := cmd.OutOrStdout()
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Are you sure you want to delete %q by %s?", book.Title, book.Author))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Deletion cancelled.")
					return nil
				}
			}

			if _, err := svc.Store.Delete(cmd.Context(), index); err != nil {
				return rowError(err, index)
			}
			fmt.Fprintln(out, "Book deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import books from another CSV file",
		Long: `Import rows from a CSV file with at least the columns Title, Author,
Pages, Genre and Date Finished. Other columns are ignored.

After merging, rows identical in every field are kept once. Two separate
readings of the same book finished on the same day are merged into one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}

			res, err := svc.Store.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "Warning: line %d: %s\n", w.Row, w)
			}
			fmt.Fprintf(out, "Import successful: %d read, %d added, %d duplicates dropped, %d skipped.\n",
				res.Read, res.Added, res.Duplicates, res.Skipped)
			return nil
		},
	}
}
