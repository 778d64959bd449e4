package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/forgeline-labs/ccforge/internal/cli/settings"
	"github.com/forgeline-labs/ccforge/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new CCForge project",
		Long: `Create a starter project.yaml plus src/ and include/ directories.

The generated configuration declares a single "core" source group and
debug/release build modes ready for ccforge build.`,
		Example: `  # Initialize in the current directory
  ccforge init

  # Initialize in a new directory
  ccforge init my-project

  # Overwrite an existing project.yaml
  ccforge init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

// starterConfig is the scaffolded project description.
func starterConfig(name string) *config.ProjectConfig {
	return &config.ProjectConfig{
		Project: config.ProjectSection{Language: "c", Standard: "c11"},
		Compiler: config.CompilerSection{
			CompilerPath: "gcc",
			Flags:        []string{"-Wall", "-Wextra"},
		},
		Build: config.BuildSection{
			Output: name,
			Modes: map[string]config.ModeConfig{
				"debug": {
					ExtraFlags:   []string{"-g", "-O0"},
					SourceGroups: []string{"core"},
				},
				"release": {
					ExtraFlags:   []string{"-O2"},
					SourceGroups: []string{"core"},
				},
			},
		},
		SourceGroups: []config.SourceGroup{
			{
				Name:        "core",
				SourceDirs:  []string{"src"},
				IncludeDirs: []string{"include"},
			},
		},
	}
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	r := settings.RendererFromContext(cmd.Context())

	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.DefaultConfigFile)
	}

	name := filepath.Base(dir)
	if dir == "." {
		if abs, err := filepath.Abs(dir); err == nil {
			name = filepath.Base(abs)
		}
	}

	data, err := yaml.Marshal(starterConfig(name))
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	for _, sub := range []string{"src", "include"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", sub, err)
		}
	}

	r.Successf("Created %s", configPath)
	r.Progressf("Next: add sources under %s and run 'ccforge build --mode debug'", filepath.Join(dir, "src"))
	return nil
}
