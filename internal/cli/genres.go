package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainerrors "readinglog/internal/errors"
)

func newGenreCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "genre",
		Aliases: []string{"genres"},
		Short:   "Manage genre colors and their order",
		Long: `The genre registry assigns a chart color to each genre. Its order is the
column order of "stats progress", and only registered genres appear there.`,
	}

	cmd.AddCommand(
		newGenreListCommand(opts),
		newGenreAddCommand(opts),
		newGenreRenameCommand(opts),
		newGenreDeleteCommand(opts),
		newGenreReorderCommand(opts),
	)
	return cmd
}

func newGenreListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show registered genres in order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}

			entries := svc.Registry.Entries()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No genres registered.")
				return nil
			}
			tw := newTabWriter(out)
			fmt.Fprintln(tw, "#\tGENRE\tCOLOR")
			for i, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, e.Name, e.Color)
			}
			return tw.Flush()
		},
	}
}

func newGenreAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add NAME COLOR",
		Short:   "Register a genre with a chart color",
		Example: `  readinglog genre add Mystery "#2ca02c"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}
			if err := svc.Registry.Add(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Genre %q added.\n", args[0])
			return nil
		},
	}
}

func newGenreRenameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a genre, keeping its color and position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}
			if err := svc.Registry.Rename(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Genre %q renamed to %q.\n", args[0], args[1])
			return nil
		},
	}
}

func newGenreDeleteCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Remove a genre from the registry",
		Long:    `Remove a genre from the registry. Books of that genre are kept.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}

			name := args[0]
			if !svc.Registry.Has(name) {
				return domainerrors.NotFoundf("genre %q not found", name)
			}

			out := cmd.OutOrStdout()
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Are you sure you want to delete genre %q?", name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Deletion cancelled.")
					return nil
				}
			}

			if err := svc.Registry.Delete(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(out, "Genre %q deleted.\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func newGenreReorderCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder ORDER",
		Short: "Reorder genres by listing their current numbers in the new order",
		Long: `Reorder genres. ORDER is a comma separated list of the numbers shown by
"genre list", naming each genre exactly once in its new position.`,
		Example: `  readinglog genre reorder 3,1,2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseOrder(args[0])
			if err != nil {
				return err
			}
			svc, err := opts.services(cmd)
			if err != nil {
				return err
			}
			if err := svc.Registry.Reorder(cmd.Context(), order); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Genres reordered:")
			for i, name := range svc.Registry.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, name)
			}
			return nil
		},
	}
}
