package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// LabelOptions holds flags for the label command.
type LabelOptions struct {
	*RootOptions
	DatasetOptions
	Column string
	Value  int
	Text   string
}

// NewLabelCommand creates the label command.
func NewLabelCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LabelOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Attach a value label to a column",
		Long: `Attach a text label to one value of a column. Labels on the state
column are used when naming the generated indicator columns.

Example:
  panelstudy label --db ./study.db --column regime --value 3 --text democracy`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabel(opts, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.Column, "column", "", "column to label (required)")
	_ = cmd.MarkFlagRequired("column")
	cmd.Flags().IntVar(&opts.Value, "value", 0, "value to label (required)")
	_ = cmd.MarkFlagRequired("value")
	cmd.Flags().StringVar(&opts.Text, "text", "", "label text (required)")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func runLabel(opts *LabelOptions, cmd *cobra.Command) error {
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
	if err := f.SetValueLabel(opts.Column, opts.Value, opts.Text); err != nil {
		return WrapExitError(ExitCommandError, "failed to set label", err)
	}
	if err := st.SaveFrame(ctx, opts.Dataset, f); err != nil {
		return WrapExitError(ExitFailure, "failed to save dataset", err)
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(map[string]any{
			"dataset": opts.Dataset,
			"column":  opts.Column,
			"value":   opts.Value,
			"text":    opts.Text,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Labeled %s=%d as %q\n", opts.Column, opts.Value, opts.Text)
	return nil
}
