package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/panelstudy/internal/config"
	"github.com/roach88/panelstudy/internal/metrics"
	"github.com/roach88/panelstudy/internal/store"
	"github.com/roach88/panelstudy/internal/study"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	DatasetOptions
	ConfigFile  string
	MetricsFile string

	// Study holds the flag values. Flags given explicitly override the
	// config file.
	Study study.Config

	// RunIDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator study.RunIDGenerator
}

// GenerateResult summarizes a completed run.
type GenerateResult struct {
	RunID     string   `json:"run_id"`
	Dataset   string   `json:"dataset"`
	States    []int    `json:"states"`
	Dropped   []string `json:"dropped"`
	Columns   []string `json:"columns"`
	Rows      int      `json:"rows"`
	Skipped   int      `json:"skipped"`
	Events    int      `json:"events"`
	Stamps    int      `json:"stamps"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	return newGenerateCommand(&GenerateOptions{RootOptions: rootOpts})
}

func newGenerateCommand(opts *GenerateOptions) *cobra.Command {

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate event-study indicator columns",
		Long: `Generate binary indicator columns <event>_<state>_<k>_<l> for every
state value, repetition k in 1..K and lag l in 0..L.

The dataset must be sorted by (panel, time); use "panelstudy sort" first.
Existing columns named <event>_* are dropped before new ones are created.
The dataset is saved and the run recorded only if the whole run succeeds.

Parameters can come from a YAML or CUE file given with --config; flags given
on the command line override the file.

Examples:
  panelstudy generate --db ./study.db -k 2 -l 3 --event ev --state regime --panel id --time t
  panelstudy generate --db ./study.db --config study.yaml --workers 4
  panelstudy generate --db ./study.db --config study.cue --metrics-file run.prom`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "study file (.yaml, .yml or .cue)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	cmd.Flags().IntVarP(&opts.Study.K, "repetitions", "k", 1, "K: counted repetitions per state and panel (>= 1)")
	cmd.Flags().IntVarP(&opts.Study.L, "lags", "l", 0, "L: distinguished lag periods (>= 0)")
	cmd.Flags().StringVar(&opts.Study.Event, "event", "", "event indicator column")
	cmd.Flags().StringVar(&opts.Study.State, "state", "", "state column")
	cmd.Flags().StringVar(&opts.Study.Panel, "panel", "", "panel identifier column")
	cmd.Flags().StringVar(&opts.Study.Time, "time", "", "time column")
	cmd.Flags().IntVar(&opts.Study.Workers, "workers", 0, "panel partitions swept concurrently (0 or 1: sequential)")

	return cmd
}

// resolveConfig merges the config file (if any) with explicitly set flags.
func resolveConfig(opts *GenerateOptions, cmd *cobra.Command) (study.Config, string, error) {
	cfg := opts.Study
	datasetName := opts.Dataset
	if opts.ConfigFile == "" {
		return cfg, datasetName, nil
	}

	file, err := config.Load(opts.ConfigFile)
	if err != nil {
		return cfg, datasetName, err
	}
	file.Apply(&cfg)
	if file.Dataset != "" && !cmd.Flags().Changed("dataset") {
		datasetName = file.Dataset
	}

	flags := cmd.Flags()
	for _, o := range []struct {
		flag string
		set  func()
	}{
		{"repetitions", func() { cfg.K = opts.Study.K }},
		{"lags", func() { cfg.L = opts.Study.L }},
		{"event", func() { cfg.Event = opts.Study.Event }},
		{"state", func() { cfg.State = opts.Study.State }},
		{"panel", func() { cfg.Panel = opts.Study.Panel }},
		{"time", func() { cfg.Time = opts.Study.Time }},
		{"workers", func() { cfg.Workers = opts.Study.Workers }},
	} {
		if flags.Changed(o.flag) {
			o.set()
		}
	}
	return cfg, datasetName, nil
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	cfg, datasetName, err := resolveConfig(opts, cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	f, err := loadDataset(ctx, st, datasetName)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	runOpts := []study.Option{
		study.WithLogger(logger.With("dataset", datasetName)),
		study.WithMetrics(recorder),
	}
	if opts.RunIDGenerator != nil {
		runOpts = append(runOpts, study.WithRunIDGenerator(opts.RunIDGenerator))
	}

	res, err := study.New(f, runOpts...).Run(ctx, cfg)
	if err != nil {
		return reportRunError(out, err)
	}

	if err := st.SaveFrame(ctx, datasetName, f); err != nil {
		return WrapExitError(ExitFailure, "failed to save dataset", err)
	}
	if _, err := st.RecordRun(ctx, store.NewRunRecord(datasetName, res)); err != nil {
		return WrapExitError(ExitFailure, "failed to record run", err)
	}
	if opts.MetricsFile != "" {
		if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
			return WrapExitError(ExitFailure, "failed to write metrics", err)
		}
	}

	result := GenerateResult{
		RunID:     res.RunID,
		Dataset:   datasetName,
		States:    res.States,
		Dropped:   res.Dropped,
		Columns:   res.Columns,
		Rows:      res.Rows,
		Skipped:   res.Skipped,
		Events:    res.Events,
		Stamps:    res.Stamps,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if result.Dropped == nil {
		result.Dropped = []string{}
	}

	if opts.Format == "json" {
		return out.Success(result)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run %s on %q\n", result.RunID, result.Dataset)
	fmt.Fprintf(w, "  states:  %d\n", len(result.States))
	fmt.Fprintf(w, "  columns: %d created, %d dropped\n", len(result.Columns), len(result.Dropped))
	fmt.Fprintf(w, "  rows:    %d (%d skipped)\n", result.Rows, result.Skipped)
	fmt.Fprintf(w, "  events:  %d\n", result.Events)
	fmt.Fprintf(w, "  stamps:  %d\n", result.Stamps)
	return nil
}

// reportRunError prints a run failure and maps it to an exit code.
// Configuration errors carry their code; everything else is reported as a
// store failure.
func reportRunError(out *OutputFormatter, err error) error {
	var cfgErr *study.ConfigurationError
	if errors.As(err, &cfgErr) {
		_ = out.Error(string(cfgErr.Code), cfgErr.Message, map[string]string{
			"param": cfgErr.Param,
			"value": cfgErr.Value,
		})
		return WrapExitError(ExitFailure, "invalid configuration", err)
	}
	if study.IsStoreError(err) {
		_ = out.Error("STORE_ERROR", err.Error(), nil)
		return WrapExitError(ExitFailure, "store failure", err)
	}
	_ = out.Error("RUN_FAILED", err.Error(), nil)
	return WrapExitError(ExitFailure, "run failed", err)
}
