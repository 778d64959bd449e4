package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/forgeline-labs/ccforge/internal/cli/output"
	"github.com/forgeline-labs/ccforge/internal/cli/settings"
	"github.com/forgeline-labs/ccforge/internal/config"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List declared build modes and source groups",
		Long: `Show a summary of the project configuration: language, toolchain,
declared build modes, and source groups.

Use --format json for machine-readable output.`,
		Example: `  # Show the project summary
  ccforge list

  # As JSON
  ccforge list --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	ctx := cmd.Context()
	s := settings.FromContext(ctx)
	r := settings.RendererFromContext(ctx)

	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return listJSON(cfg, r)
	}
	return listText(cfg, r)
}

func listText(cfg *config.ProjectConfig, r *output.Renderer) error {
	r.Header("Project")
	r.KeyValue("Language", cfg.Language())
	if cfg.Project.Standard != "" {
		r.KeyValue("Standard", cfg.Project.Standard)
	}
	r.KeyValue("Compiler", cfg.CompilerPath())
	r.Println()

	r.Header(fmt.Sprintf("Build modes (%d)", len(cfg.Build.Modes)))
	modes := make([]string, 0, len(cfg.Build.Modes))
	for name := range cfg.Build.Modes {
		modes = append(modes, name)
	}
	sort.Strings(modes)

	mt := table.NewWriter()
	mt.SetOutputMirror(r.Writer())
	mt.AppendHeader(table.Row{"Mode", "Output Dir", "Output", "Source Groups", "Extra Flags"})
	for _, name := range modes {
		mode, _ := cfg.Mode(name)
		mt.AppendRow(table.Row{
			name,
			cfg.ModeOutputDir(name),
			cfg.OutputName(name),
			strings.Join(mode.SourceGroups, ", "),
			strings.Join(mode.ExtraFlags, " "),
		})
	}
	mt.Render()
	r.Println()

	r.Header(fmt.Sprintf("Source groups (%d)", len(cfg.SourceGroups)))
	gt := table.NewWriter()
	gt.SetOutputMirror(r.Writer())
	gt.AppendHeader(table.Row{"Group", "Source Dirs", "Include Dirs", "Flags", "Defines"})
	for _, g := range cfg.SourceGroups {
		gt.AppendRow(table.Row{
			g.Name,
			strings.Join(g.SourceDirs, ", "),
			strings.Join(g.IncludeDirs, ", "),
			strings.Join(g.Flags, " "),
			strings.Join(g.Defines, " "),
		})
	}
	gt.Render()

	return nil
}

func listJSON(cfg *config.ProjectConfig, r *output.Renderer) error {
	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"project": map[string]string{
			"language": cfg.Language(),
			"standard": cfg.Project.Standard,
			"compiler": cfg.CompilerPath(),
		},
		"modes":         cfg.Build.Modes,
		"source_groups": cfg.SourceGroups,
	})
}
