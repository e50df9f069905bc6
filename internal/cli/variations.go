package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/evsel/internal/event"
	"github.com/roach88/evsel/internal/pipeline"
	"github.com/roach88/evsel/internal/weight"
)

// VariationsOptions holds flags for the variations command.
type VariationsOptions struct {
	*RootOptions
	Config     string
	Simulation bool
}

// NewVariationsCommand creates the variations command.
func NewVariationsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VariationsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "variations",
		Short: "List the weight variations a config produces",
		Long: `Print the flattened variation table: one global index per
systematic variation, in component order.

Real data has no variations; pass --simulation to list those of a
simulated dataset.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVariations(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "options file (.yaml, .toml or .cue)")
	cmd.Flags().BoolVar(&opts.Simulation, "simulation", false, "list variations for simulated data")

	return cmd
}

func runVariations(opts *VariationsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	anaOpts, err := loadOptions(opts.Config)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}

	ds := &event.Dataset{Name: "variations", Simulation: opts.Simulation}
	runner, err := pipeline.New(*anaOpts, ds,
		pipeline.WithLogger(newLogger(opts.Verbose, cmd.ErrOrStderr())))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to set up analysis", err)
	}

	vars := runner.Analysis().Weight().Variations()
	if formatter.JSON() {
		if vars == nil {
			vars = []weight.Variation{}
		}
		return formatter.Success(vars)
	}
	writeVariationsText(cmd.OutOrStdout(), vars)
	return nil
}

func writeVariationsText(w io.Writer, vars []weight.Variation) {
	if len(vars) == 0 {
		fmt.Fprintln(w, "No variations (nominal weights only).")
		return
	}
	fmt.Fprintf(w, "Variations: %d\n", len(vars))
	for _, v := range vars {
		fmt.Fprintf(w, "  %3d  %-18s %s\n", v.Index, v.Component, v.Name)
	}
}
