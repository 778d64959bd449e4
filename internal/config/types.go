// Package config provides the typed view over the project description file.
// It is decoupled from CLI concerns so the generator, builder, and watcher
// all see identical defaulting behavior.
package config

import (
	"fmt"
	"path/filepath"
)

// ProjectConfig is the root of the loaded project description.
// It is loaded once per invocation and treated as read-only afterwards.
type ProjectConfig struct {
	Project      ProjectSection      `koanf:"project" yaml:"project,omitempty"`
	Compiler     CompilerSection     `koanf:"compiler" yaml:"compiler,omitempty"`
	Build        BuildSection        `koanf:"build" yaml:"build,omitempty"`
	Dependencies DependenciesSection `koanf:"dependencies" yaml:"dependencies,omitempty"`
	SourceGroups []SourceGroup       `koanf:"source_groups" yaml:"source_groups,omitempty"`
}

// ProjectSection describes the language and standard of the project.
type ProjectSection struct {
	Language string `koanf:"language" yaml:"language,omitempty"` // c, c++, cpp, cxx
	Standard string `koanf:"standard" yaml:"standard,omitempty"` // e.g. c11, c++17; empty means unspecified
}

// CompilerSection holds the global compiler configuration.
type CompilerSection struct {
	CompilerPath string   `koanf:"compiler_path" yaml:"compiler_path,omitempty"`
	Flags        []string `koanf:"flags" yaml:"flags,omitempty"`
	Defines      []string `koanf:"defines" yaml:"defines,omitempty"`
}

// BuildSection holds linking and per-mode build configuration.
type BuildSection struct {
	Output    string                `koanf:"output" yaml:"output,omitempty"`
	OutputDir string                `koanf:"output_dir" yaml:"output_dir,omitempty"`
	Linker    LinkerSection         `koanf:"linker" yaml:"linker,omitempty"`
	Modes     map[string]ModeConfig `koanf:"modes" yaml:"modes,omitempty"`
}

// LinkerSection holds global linker flags.
type LinkerSection struct {
	Flags []string `koanf:"flags" yaml:"flags,omitempty"`
}

// ModeConfig is a named build profile (e.g. debug, release).
type ModeConfig struct {
	OutputDir    string   `koanf:"output_dir" yaml:"output_dir,omitempty"`
	OutputName   string   `koanf:"output_name" yaml:"output_name,omitempty"`
	ExtraFlags   []string `koanf:"extra_flags" yaml:"extra_flags,omitempty"`
	LinkerFlags  []string `koanf:"linker_flags" yaml:"linker_flags,omitempty"`
	SourceGroups []string `koanf:"source_groups" yaml:"source_groups,omitempty"`
}

// SourceGroup is a named bundle of source/include directories and flags.
type SourceGroup struct {
	Name        string   `koanf:"name" yaml:"name,omitempty"`
	SourceDirs  []string `koanf:"source_dirs" yaml:"source_dirs,omitempty"`
	IncludeDirs []string `koanf:"include_dirs" yaml:"include_dirs,omitempty"`
	Flags       []string `koanf:"flags" yaml:"flags,omitempty"`
	Defines     []string `koanf:"defines" yaml:"defines,omitempty"`
}

// DependenciesSection lists external include directories.
type DependenciesSection struct {
	ExternalIncludes []string `koanf:"external_includes" yaml:"external_includes,omitempty"`
}

// cppLanguages are the language names treated as C++.
var cppLanguages = map[string]bool{
	"c++": true,
	"cpp": true,
	"cxx": true,
}

// Language returns the declared project language, defaulting to C.
func (c *ProjectConfig) Language() string {
	if c.Project.Language == "" {
		return DefaultLanguage
	}
	return c.Project.Language
}

// IsCPP reports whether the project language is in the C++ family.
func (c *ProjectConfig) IsCPP() bool {
	return cppLanguages[c.Language()]
}

// CompilerPath returns the configured compiler, defaulting by language.
func (c *ProjectConfig) CompilerPath() string {
	if c.Compiler.CompilerPath != "" {
		return c.Compiler.CompilerPath
	}
	if c.IsCPP() {
		return DefaultCXXCompiler
	}
	return DefaultCCompiler
}

// OutputDir returns the top-level object output directory used by metadata
// generation, defaulting to build/.
func (c *ProjectConfig) OutputDir() string {
	if c.Build.OutputDir == "" {
		return DefaultOutputDir
	}
	return c.Build.OutputDir
}

// Mode looks up a build mode by name.
func (c *ProjectConfig) Mode(name string) (ModeConfig, bool) {
	mode, ok := c.Build.Modes[name]
	return mode, ok
}

// ModeOutputDir returns the output directory for a mode, defaulting to
// build/<mode>.
func (c *ProjectConfig) ModeOutputDir(name string) string {
	if mode, ok := c.Build.Modes[name]; ok && mode.OutputDir != "" {
		return mode.OutputDir
	}
	return filepath.Join("build", name)
}

// OutputName returns the binary name for a mode. The mode-specific name takes
// precedence over the project-wide output, which defaults to a.out.
func (c *ProjectConfig) OutputName(name string) string {
	if mode, ok := c.Build.Modes[name]; ok && mode.OutputName != "" {
		return mode.OutputName
	}
	if c.Build.Output != "" {
		return c.Build.Output
	}
	return DefaultOutputName
}

// GroupByName finds a source group by its unique name.
func (c *ProjectConfig) GroupByName(name string) (SourceGroup, bool) {
	for _, g := range c.SourceGroups {
		if g.Name == name {
			return g, true
		}
	}
	return SourceGroup{}, false
}

// GroupNames returns the names of all declared source groups in declaration
// order.
func (c *ProjectConfig) GroupNames() []string {
	names := make([]string, 0, len(c.SourceGroups))
	for _, g := range c.SourceGroups {
		names = append(names, g.Name)
	}
	return names
}

// Validate checks structural invariants of the loaded project description.
func (c *ProjectConfig) Validate() error {
	seen := make(map[string]bool, len(c.SourceGroups))
	for _, g := range c.SourceGroups {
		if g.Name == "" {
			return fmt.Errorf("source group without a name")
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate source group name %q", g.Name)
		}
		seen[g.Name] = true
	}
	return nil
}
