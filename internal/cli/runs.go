package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/evsel/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// RunDetail is the JSON payload for a single run.
type RunDetail struct {
	Run        store.Run         `json:"run"`
	Variations []store.Variation `json:"variations"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded runs",
		Long: `List the runs recorded in a database, oldest first.

With a run id, print that run and its variation table.

Example:
  evsel runs --db ./runs.db
  evsel runs --db ./runs.db 0192f3a4-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowRun(opts, args[0], cmd)
			}
			return runListRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// openExisting opens a database that must already exist.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return store.Open(path)
}

func runListRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := openExisting(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list runs", err)
	}

	if formatter.JSON() {
		return formatter.Success(runs)
	}
	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		writeRunLine(w, r)
	}
	return nil
}

func runShowRun(opts *RunsOptions, id string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	st, err := openExisting(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	run, err := st.ReadRun(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitFailure, ErrCodeStore, "run not found", err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read run", err)
	}
	vars, err := st.ReadVariations(ctx, id)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read variations", err)
	}

	if formatter.JSON() {
		return formatter.Success(RunDetail{Run: run, Variations: vars})
	}
	w := cmd.OutOrStdout()
	writeRunLine(w, run)
	fmt.Fprintf(w, "  Config: %s\n", run.ConfigHash)
	if run.Syst != "" {
		fmt.Fprintf(w, "  Systematic: %s\n", run.Syst)
	}
	for _, v := range vars {
		fmt.Fprintf(w, "  %3d  %-18s %s\n", v.Index, v.Component, v.Name)
	}
	return nil
}

func writeRunLine(w io.Writer, r store.Run) {
	status := "✓"
	if !r.Completed {
		status = "✗"
	}
	fmt.Fprintf(w, "%s #%d %s %s: %d read, %d selected\n",
		status, r.Seq, r.ID, r.Dataset, r.EventsRead, r.EventsSelected)
}
