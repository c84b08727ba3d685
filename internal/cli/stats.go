package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	domainerrors "readinglog/internal/errors"
	"readinglog/internal/genres"
	"readinglog/internal/models"
	"readinglog/internal/stats"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summaries of what you have read",
		Long: `Summaries of the book log, printed as text tables or, with --format json,
as data a chart renderer can consume. Books without a finish date are left
out of any summary grouped by month or quarter.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(format)
		},
	}
	cmd.PersistentFlags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")

	cmd.AddCommand(
		newMonthlyCommand(opts, &format),
		newProgressCommand(opts, &format),
		newDistributionCommand(opts, &format),
		newPeriodCommand(opts, &format),
		newQuarterlyCommand(opts, &format),
	)
	return cmd
}

// loadBooks reads the table and prints a notice when it is empty
func loadBooks(cmd *cobra.Command, opts *rootOptions) (*Services, []models.Book, error) {
	svc, err := opts.services(cmd)
	if err != nil {
		return nil, nil, err
	}
	books, err := svc.Store.Load(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	if len(books) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No data to analyze.")
	}
	return svc, books, nil
}

type monthlyOutput struct {
	Genre  string              `json:"genre,omitempty"`
	Color  string              `json:"color"`
	Series []models.MonthTotal `json:"series"`
}

func newMonthlyCommand(opts *rootOptions, format *string) *cobra.Command {
	var genre string

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Pages read per month, optionally for one genre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, books, err := loadBooks(cmd, opts)
			if err != nil || len(books) == 0 {
				return err
			}

			genre = strings.TrimSpace(genre)
			output := monthlyOutput{
				Series: stats.PagesByMonth(books, genre),
				Color:  stats.SeriesColor(genre, svc.Registry),
			}
			if genre != "" {
				output.Genre = genres.Normalize(genre)
			}

			out := cmd.OutOrStdout()
			if *format == formatJSON {
				return writeJSON(out, output)
			}

			if genre != "" && len(output.Series) == 0 {
				fmt.Fprintf(out, "No books found for genre: %s\n", genre)
				return nil
			}
			title := "Pages Read Per Month (All Genres)"
			if genre != "" {
				title = fmt.Sprintf("Pages Read Per Month (Genre: %s)", output.Genre)
			}
			fmt.Fprintln(out, title)
			return printMonthSeries(out, output.Series)
		},
	}

	cmd.Flags().StringVarP(&genre, "genre", "g", "", "only count this genre (case-insensitive)")
	return cmd
}

type tableOutput struct {
	models.MonthGenreTable
	Colors []string `json:"colors"`
}

func newProgressCommand(opts *rootOptions, format *string) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Pages per month split by registered genre",
		Long: `Pages per month split by genre. Only genres in the genre registry are
shown, in registry order; use "stats genres" to see every genre.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, books, err := loadBooks(cmd, opts)
			if err != nil || len(books) == 0 {
				return err
			}

			table := stats.PagesByMonthAndGenre(books, svc.Registry)
			output := tableOutput{
				MonthGenreTable: table,
				Colors:          stats.Palette(table.Genres, svc.Registry, svc.DefaultColor),
			}

			out := cmd.OutOrStdout()
			if *format == formatJSON {
				return writeJSON(out, output)
			}
			fmt.Fprintln(out, "Pages Read Per Month by Genre")
			return printMonthGenreTable(out, table)
		},
	}
}

type distributionOutput struct {
	Distribution []models.GenreCount `json:"distribution"`
	Colors       []string            `json:"colors"`
}

func distribution(books []models.Book, svc *Services) distributionOutput {
	dist := stats.GenreDistribution(books)
	names := make([]string, len(dist))
	for i, d := range dist {
		names[i] = d.Genre
	}
	return distributionOutput{
		Distribution: dist,
		Colors:       stats.Palette(names, svc.Registry, svc.DefaultColor),
	}
}

func newDistributionCommand(opts *rootOptions, format *string) *cobra.Command {
	return &cobra.Command{
		Use:     "genres",
		Aliases: []string{"distribution"},
		Short:   "How many books of each genre you have read",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, books, err := loadBooks(cmd, opts)
			if err != nil || len(books) == 0 {
				return err
			}

			output := distribution(books, svc)
			out := cmd.OutOrStdout()
			if *format == formatJSON {
				return writeJSON(out, output)
			}
			fmt.Fprintln(out, "Overall Genre Distribution")
			return printDistribution(out, output)
		},
	}
}

func newPeriodCommand(opts *rootOptions, format *string) *cobra.Command {
	var (
		year    int
		quarter int
		chart   string
	)

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Genre summary for one year or quarter",
		Example: `  readinglog stats period --year 2024
  readinglog stats period --year 2024 --quarter 2 --chart bar`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if chart != "pie" && chart != "bar" {
				return domainerrors.Validationf("unknown chart %q (use pie or bar)", chart)
			}
			if err := stats.CheckQuarter(quarter); err != nil {
				return err
			}
			svc, books, err := loadBooks(cmd, opts)
			if err != nil || len(books) == 0 {
				return err
			}

			filtered, err := stats.FilterByYearQuarter(books, year, quarter)
			if err != nil {
				return err
			}

			label := strconv.Itoa(year)
			if quarter != 0 {
				label += fmt.Sprintf(" Q%d", quarter)
			}

			out := cmd.OutOrStdout()
			if len(filtered) == 0 && *format != formatJSON {
				fmt.Fprintf(out, "No data found for %s.\n", label)
				return nil
			}

			if chart == "pie" {
				output := distribution(filtered, svc)
				if *format == formatJSON {
					return writeJSON(out, output)
				}
				fmt.Fprintf(out, "Genre Distribution - %s\n", label)
				return printDistribution(out, output)
			}

			table := stats.PagesByMonthAndGenre(filtered, nil)
			output := tableOutput{
				MonthGenreTable: table,
				Colors:          stats.Palette(table.Genres, svc.Registry, svc.DefaultColor),
			}
			if *format == formatJSON {
				return writeJSON(out, output)
			}
			fmt.Fprintf(out, "Pages per Genre by Month - %s\n", label)
			return printMonthGenreTable(out, table)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "calendar year, e.g. 2024")
	cmd.Flags().IntVarP(&quarter, "quarter", "q", 0, "calendar quarter 1-4 (default: whole year)")
	cmd.Flags().StringVar(&chart, "chart", "pie", "pie (genre distribution) or bar (pages per genre by month)")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newQuarterlyCommand(opts *rootOptions, format *string) *cobra.Command {
	return &cobra.Command{
		Use:   "quarterly",
		Short: "Average pages per genre per quarter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, books, err := loadBooks(cmd, opts)
			if err != nil || len(books) == 0 {
				return err
			}

			table := stats.AvgPagesByGenrePerQuarter(books)
			out := cmd.OutOrStdout()
			if *format == formatJSON {
				return writeJSON(out, table)
			}
			if len(table.Quarters) == 0 {
				fmt.Fprintln(out, "No data available.")
				return nil
			}

			fmt.Fprintln(out, "Average Pages Per Genre Per Quarter:")
			tw := newTabWriter(out)
			fmt.Fprintf(tw, "QUARTER\t%s\n", strings.Join(table.Genres, "\t"))
			for i, q := range table.Quarters {
				cells := make([]string, len(table.Genres))
				for j := range table.Genres {
					cells[j] = strconv.FormatFloat(table.Average[i][j], 'f', 1, 64)
				}
				fmt.Fprintf(tw, "%s\t%s\n", q, strings.Join(cells, "\t"))
			}
			return tw.Flush()
		},
	}
}

func printMonthSeries(w io.Writer, series []models.MonthTotal) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "MONTH\tPAGES")
	for _, p := range series {
		fmt.Fprintf(tw, "%s\t%d\n", p.Month, p.Pages)
	}
	return tw.Flush()
}

func printMonthGenreTable(w io.Writer, table models.MonthGenreTable) error {
	if len(table.Genres) == 0 {
		fmt.Fprintln(w, "No books in registered genres.")
		return nil
	}
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "MONTH\t%s\n", strings.Join(table.Genres, "\t"))
	for i, m := range table.Months {
		cells := make([]string, len(table.Genres))
		for j := range table.Genres {
			cells[j] = strconv.Itoa(table.Pages[i][j])
		}
		fmt.Fprintf(tw, "%s\t%s\n", m, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func printDistribution(w io.Writer, output distributionOutput) error {
	total := 0
	for _, d := range output.Distribution {
		total += d.Count
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "GENRE\tBOOKS\tSHARE\tCOLOR")
	for i, d := range output.Distribution {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", d.Genre, d.Count, percent(d.Count, total), output.Colors[i])
	}
	return tw.Flush()
}
