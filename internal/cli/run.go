package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/evsel/internal/config"
	"github.com/roach88/evsel/internal/event"
	"github.com/roach88/evsel/internal/metrics"
	"github.com/roach88/evsel/internal/pipeline"
	"github.com/roach88/evsel/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config    string
	Database  string
	Metrics   string
	MaxEvents int64
	BatchSize int

	// RunIDs overrides the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs pipeline.RunIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <dataset>",
		Short: "Run the selection over a dataset",
		Long: `Run the event selection over a YAML dataset and print the summary.

Without --config the default options are used. With --db every selected
event and its variation weights are persisted to SQLite.

Example:
  evsel run --config analysis.toml ./dy_2018.yaml
  evsel run --config analysis.cue --db ./runs.db --metrics ./run.prom ./dy_2018.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelection(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "options file (.yaml, .toml or .cue)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to record the run in")
	cmd.Flags().StringVar(&opts.Metrics, "metrics", "", "write Prometheus text metrics to this file")
	cmd.Flags().Int64Var(&opts.MaxEvents, "max-events", 0, "stop after this many records (0 = all)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", pipeline.DefaultBatchSize, "selected events per store transaction")

	return cmd
}

func runSelection(opts *RunOptions, datasetPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts.Verbose, cmd.ErrOrStderr())

	anaOpts, err := loadOptions(opts.Config)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	ds, err := event.LoadDataset(datasetPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDataset, "failed to load dataset", err)
	}
	formatter.VerboseLog("Loaded %d record(s) from %s", len(ds.Records), datasetPath)

	m := metrics.New()
	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = pipeline.UUIDv7Generator{}
	}
	runnerOpts := []pipeline.RunnerOption{
		pipeline.WithMetrics(m),
		pipeline.WithLogger(logger),
		pipeline.WithRunIDGenerator(runIDs),
		pipeline.WithMaxEvents(opts.MaxEvents),
		pipeline.WithBatchSize(opts.BatchSize),
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		runnerOpts = append(runnerOpts, pipeline.WithStore(st))
	}

	runner, err := pipeline.New(*anaOpts, ds, runnerOpts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to set up analysis", err)
	}

	ctx, stop := signalContext(cmd.Context(), logger)
	defer stop()

	summary, err := runner.Run(ctx)
	if err != nil {
		if pipeline.IsContractViolation(err) {
			return formatter.Fail(ExitFailure, ErrCodeContract, "contract violation", err)
		}
		return formatter.Fail(ExitFailure, ErrCodeRun, "run failed", err)
	}

	if opts.Metrics != "" {
		if err := writeMetricsFile(m, opts.Metrics); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeRun, "failed to write metrics", err)
		}
	}

	if formatter.JSON() {
		return formatter.Success(summary)
	}
	writeSummaryText(cmd.OutOrStdout(), summary)
	return nil
}

// loadOptions reads an options file, or returns the defaults for "".
func loadOptions(path string) (*config.Options, error) {
	if path == "" {
		opts := config.Default()
		return &opts, nil
	}
	return config.Load(path)
}

// signalContext cancels on SIGINT or SIGTERM. The parent may be nil.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func writeMetricsFile(m *metrics.Metrics, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	return m.WriteText(f)
}

func writeSummaryText(w io.Writer, s pipeline.Summary) {
	kind := "data"
	if s.Simulation {
		kind = "simulation"
	}
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Dataset: %s (%s)\n", s.Dataset, kind)
	fmt.Fprintf(w, "Config: %s\n", s.ConfigHash)
	if s.Syst != "" {
		fmt.Fprintf(w, "Systematic: %s\n", s.Syst)
	}
	fmt.Fprintf(w, "Events: %d read, %d selected\n", s.EventsRead, s.EventsSelected)

	fmt.Fprintln(w, "Cutflow:")
	for _, step := range s.Cutflow {
		fmt.Fprintf(w, "  %-10s %d\n", step.Filter, step.Passed)
	}

	fmt.Fprintf(w, "Weight sum: %g\n", s.WeightSum)
	if s.Syst != "" {
		fmt.Fprintf(w, "Default weight sum: %g\n", s.DefaultWeightSum)
	}
	if len(s.Variations) == 0 {
		return
	}
	fmt.Fprintln(w, "Variations:")
	for _, v := range s.Variations {
		fmt.Fprintf(w, "  %3d  %-18s %-16s %g\n", v.Index, v.Component, v.Name, v.Sum)
	}
}
