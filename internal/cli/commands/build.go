package commands

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgeline-labs/ccforge/internal/build"
	"github.com/forgeline-labs/ccforge/internal/cli/output"
	"github.com/forgeline-labs/ccforge/internal/cli/settings"
	"github.com/forgeline-labs/ccforge/internal/config"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Mode      string
	OutputDir string
	Jobs      int
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile and link the project for a build mode",
		Long: `Compile every source file of the mode's source groups, then link the
collected objects into the mode's output binary.

The toolchain environment (CC, CXX, CFLAGS, CXXFLAGS, CPPFLAGS, LDFLAGS) is
derived from the project configuration, but variables already set in the
calling environment are authoritative and never overwritten, so
cross-compilation works by exporting them before invoking the build.`,
		Example: `  # Build the debug mode
  ccforge build --mode debug

  # Build release into a custom directory with 4 parallel compile jobs
  ccforge build --mode release --output dist --jobs 4

  # Cross-compile by overriding the toolchain
  CC=arm-linux-gnueabi-gcc ccforge build --mode release`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "", "Build mode (required)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Output directory (overrides config)")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 1, "Number of parallel compile jobs")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	ctx := cmd.Context()
	s := settings.FromContext(ctx)
	r := settings.RendererFromContext(ctx)
	logger := settings.LoggerFromContext(ctx)

	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return err
	}

	runner := &build.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
	orch := build.New(cfg, runner, logger, r)

	result, err := orch.Build(ctx, build.Options{
		Mode:      opts.Mode,
		OutputDir: opts.OutputDir,
		Jobs:      opts.Jobs,
	})
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"build_id":    result.ID,
			"mode":        result.Mode,
			"output":      result.OutputPath,
			"compiled":    result.Compiled,
			"duration_ms": result.Duration.Milliseconds(),
		})
	}

	r.Successf("Build complete: %s", result.OutputPath)
	r.Verbosef("Build %s compiled %d file(s) in %s", result.ID, result.Compiled, result.Duration.Round(time.Millisecond))
	return nil
}
