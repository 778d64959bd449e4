package commands

import (
	"github.com/spf13/cobra"

	"github.com/forgeline-labs/ccforge/internal/build"
	"github.com/forgeline-labs/ccforge/internal/cli/settings"
	"github.com/forgeline-labs/ccforge/internal/config"
)

// CleanOptions holds options for the clean command.
type CleanOptions struct {
	Mode      string
	OutputDir string
}

// NewCleanCommand creates the clean command.
func NewCleanCommand() *cobra.Command {
	opts := &CleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build artifacts",
		Long: `Remove object files and executables from a mode's output directory.
Without --mode, every declared mode is cleaned. The directory itself is
removed if nothing is left in it. A missing directory is not an error.`,
		Example: `  # Clean all modes
  ccforge clean

  # Clean a single mode
  ccforge clean --mode debug`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClean(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "Build mode to clean (default: all modes)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory (overrides config, single mode only)")

	return cmd
}

func runClean(cmd *cobra.Command, opts *CleanOptions) error {
	ctx := cmd.Context()
	s := settings.FromContext(ctx)
	r := settings.RendererFromContext(ctx)
	logger := settings.LoggerFromContext(ctx)

	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return err
	}

	orch := build.New(cfg, nil, logger, r)
	removed, err := orch.Clean(opts.Mode, opts.OutputDir)
	if err != nil {
		return err
	}

	r.Successf("Cleaned %d file(s)", removed)
	return nil
}
