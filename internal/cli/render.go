package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	domainerrors "readinglog/internal/errors"
	"readinglog/internal/models"
	"readinglog/internal/records"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func dateOrDash(b models.Book) string {
	if s := b.DateString(); s != "" {
		return s
	}
	return "-"
}

func pagesOrUnknown(b models.Book) string {
	if b.HasPages() {
		return strconv.Itoa(b.Pages)
	}
	return "?"
}

func printBooks(w io.Writer, books []models.Book) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "#\tTITLE\tAUTHOR\tPAGES\tGENRE\tFINISHED")
	for i, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, b.Title, b.Author, pagesOrUnknown(b), b.Genre, dateOrDash(b))
	}
	return tw.Flush()
}

func printBook(w io.Writer, index int, b models.Book) {
	fmt.Fprintf(w, "%d. %s by %s (%s pages, %s, finished: %s)\n",
		index+1, b.Title, b.Author, pagesOrUnknown(b), b.Genre, dateOrDash(b))
}

func printWarnings(w io.Writer, warnings []records.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

// printRowWarnings prefixes each warning with its 1-based book number
func printRowWarnings(w io.Writer, warnings []records.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "Warning: book #%d: %s\n", warning.Row+1, warning)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return domainerrors.Validationf("unknown format %q (use %s or %s)", format, formatTable, formatJSON)
	}
}

// confirm asks a y/n question on the command's input; anything but y/yes is no
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/n): ", question)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout())

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func percent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return strconv.FormatFloat(float64(part)*100/float64(total), 'f', 1, 64) + "%"
}
