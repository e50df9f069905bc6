package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/evsel/internal/config"
)

// ValidationResult is the JSON payload of the validate command.
type ValidationResult struct {
	Valid   bool            `json:"valid"`
	Format  config.Format   `json:"format"`
	Hash    string          `json:"hash"`
	Options json.RawMessage `json:"options,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Canonical bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Check an options file and print its hash",
		Long: `Decode and validate an options file without running anything.

The hash is computed over the canonical JSON form of the options, so the
same options written as YAML, TOML or CUE hash identically.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "also print the canonical JSON options")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	format, err := config.FormatFromPath(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "unsupported config file", err)
	}
	if _, err := os.Stat(path); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "config file not found", err)
	}

	anaOpts, err := config.Load(path)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeConfig, "invalid config", err)
	}
	formatter.VerboseLog("Decoded %s as %s", path, format)

	hash, err := anaOpts.Hash()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeConfig, "failed to hash config", err)
	}
	result := ValidationResult{Valid: true, Format: format, Hash: hash}

	if opts.Canonical {
		canonical, err := anaOpts.CanonicalJSON()
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeConfig, "failed to encode config", err)
		}
		result.Options = canonical
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ %s is valid (%s)\n", path, format)
	fmt.Fprintf(w, "Hash: %s\n", hash)
	if opts.Canonical {
		fmt.Fprintf(w, "%s\n", result.Options)
	}
	return nil
}
