package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/panelstudy/internal/dataio"
	"github.com/roach88/panelstudy/internal/dataset"
	"github.com/roach88/panelstudy/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	DatasetOptions
	Sheet string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a stored dataset to CSV or XLSX",
		Long: `Write a stored dataset to a CSV or XLSX file. Missing values are
written as empty cells; encoded text columns are written as their codes.

Examples:
  panelstudy export out.csv --db ./study.db
  panelstudy export out.xlsx --db ./study.db --dataset wave2 --sheet Indicators`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "worksheet name (XLSX only)")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
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

	if err := dataio.WriteFile(path, f, opts.Sheet); err != nil {
		return WrapExitError(ExitFailure, "failed to write output", err)
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(map[string]any{
			"dataset": opts.Dataset,
			"path":    path,
			"rows":    f.RowCount(),
			"columns": len(f.Names()),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %q to %s: %d rows, %d columns\n",
		opts.Dataset, path, f.RowCount(), len(f.Names()))
	return nil
}

// loadDataset loads a dataset, mapping a missing dataset to a command error.
func loadDataset(ctx context.Context, st *store.Store, name string) (*dataset.Frame, error) {
	f, err := st.LoadFrame(ctx, name)
	if errors.Is(err, store.ErrDatasetNotFound) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("dataset not found: %s", name))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load dataset", err)
	}
	return f, nil
}
