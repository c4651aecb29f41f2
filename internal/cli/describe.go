package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/panelstudy/internal/store"
)

// DescribeOptions holds flags for the describe command.
type DescribeOptions struct {
	*RootOptions
	DatasetOptions
}

// ColumnInfo describes one column of a dataset.
type ColumnInfo struct {
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Label       string         `json:"label,omitempty"`
	Missing     int            `json:"missing"`
	ValueLabels map[int]string `json:"value_labels,omitempty"`
}

// DescribeResult describes a stored dataset.
type DescribeResult struct {
	Dataset string       `json:"dataset"`
	Rows    int          `json:"rows"`
	SortKey []string     `json:"sort_key"`
	Columns []ColumnInfo `json:"columns"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show datasets or the columns of one dataset",
		Long: `Without --dataset, list every stored dataset. With --dataset, show
its row count, sort key and columns with kinds, labels and missing counts.

Examples:
  panelstudy describe --db ./study.db
  panelstudy describe --db ./study.db --dataset main --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Dataset, "dataset", "", "dataset name (default: list datasets)")

	return cmd
}

func runDescribe(opts *DescribeOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.Dataset == "" {
		return listDatasets(ctx, opts, st, cmd)
	}

	f, err := loadDataset(ctx, st, opts.Dataset)
	if err != nil {
		return err
	}

	result := DescribeResult{
		Dataset: opts.Dataset,
		Rows:    f.RowCount(),
		SortKey: f.DeclaredSortKey(),
		Columns: make([]ColumnInfo, 0, len(f.Names())),
	}
	for _, name := range f.Names() {
		c, err := f.Column(name)
		if err != nil {
			return err
		}
		info := ColumnInfo{Name: c.Name, Kind: string(c.Kind), Label: c.Label}
		for _, v := range c.Values {
			if f.IsMissing(v) {
				info.Missing++
			}
		}
		if labels := f.ValueLabels(name); len(labels) > 0 {
			info.ValueLabels = labels
		}
		result.Columns = append(result.Columns, info)
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Dataset: %s\n", result.Dataset)
	fmt.Fprintf(w, "Rows: %d\n", result.Rows)
	fmt.Fprintf(w, "Sorted by: %s\n", strings.Join(result.SortKey, ", "))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tKIND\tMISSING\tLABEL")
	for _, c := range result.Columns {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.Name, c.Kind, c.Missing, c.Label)
	}
	return tw.Flush()
}

func listDatasets(ctx context.Context, opts *DescribeOptions, st *store.Store, cmd *cobra.Command) error {
	infos, err := st.ListDatasets(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list datasets", err)
	}
	if infos == nil {
		infos = []store.DatasetInfo{}
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(infos)
	}

	w := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(w, "No datasets found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATASET\tROWS\tCOLUMNS\tSORTED BY")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", info.Name, info.Rows, info.Columns, strings.Join(info.SortKey, ", "))
	}
	return tw.Flush()
}
