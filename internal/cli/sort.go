package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SortOptions holds flags for the sort command.
type SortOptions struct {
	*RootOptions
	DatasetOptions
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SortOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sort <column>...",
		Short: "Sort a dataset and record its sort key",
		Long: `Sort the rows of a stored dataset ascending by the given columns.
Missing values sort last. The columns become the dataset's declared sort key,
which generate checks before running.

Example:
  panelstudy sort id t --db ./study.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(opts, args, cmd)
		},
	}

	opts.register(cmd)
	return cmd
}

func runSort(opts *SortOptions, columns []string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := loadDataset(ctx, st, opts.Dataset)
	if err != nil {
		return err
	}
	if err := f.SortBy(columns...); err != nil {
		return WrapExitError(ExitCommandError, "failed to sort", err)
	}
	if err := st.SaveFrame(ctx, opts.Dataset, f); err != nil {
		return WrapExitError(ExitFailure, "failed to save dataset", err)
	}

	key := f.DeclaredSortKey()
	if opts.Format == "json" {
		return opts.formatter(cmd).Success(map[string]any{
			"dataset":  opts.Dataset,
			"sort_key": key,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sorted %q by %s\n", opts.Dataset, strings.Join(key, ", "))
	return nil
}
