package commands

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/forgeline-labs/ccforge/internal/cli/output"
	"github.com/forgeline-labs/ccforge/internal/cli/settings"
	"github.com/forgeline-labs/ccforge/internal/compiledb"
	"github.com/forgeline-labs/ccforge/internal/config"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Output string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate compile_commands.json from the project configuration",
		Long: `Generate a compilation database for language servers and editor tooling.

One entry is produced per discovered source file across every declared
source group. The written file is verified to round-trip as JSON.`,
		Example: `  # Generate with defaults (project.yaml -> compile_commands.json)
  ccforge generate

  # Custom config and output paths
  ccforge generate -c other.yaml -o out/compile_commands.json`,
		Aliases: []string{"gen"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", compiledb.DefaultOutputFile, "Output file")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	ctx := cmd.Context()
	s := settings.FromContext(ctx)
	r := settings.RendererFromContext(ctx)
	logger := settings.LoggerFromContext(ctx)

	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return err
	}

	records, err := compiledb.Generate(cfg, logger)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		r.Warningf("no source files found, nothing generated")
		return nil
	}

	if err := compiledb.Write(opts.Output, records); err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"output":  opts.Output,
			"entries": len(records),
		})
	}

	r.Successf("Generated %s with %d entries", opts.Output, len(records))
	return nil
}

// regenerate runs the full generation pipeline once: reload the project
// configuration, rebuild records, rewrite the database. Shared with watch.
func regenerate(configPath, outputPath string, logger *slog.Logger) (int, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return 0, err
	}
	records, err := compiledb.Generate(cfg, logger)
	if err != nil {
		return 0, err
	}
	if err := compiledb.Write(outputPath, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
