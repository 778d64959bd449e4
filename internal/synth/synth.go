// Package synth turns project configuration into compiler and linker
// invocations. Token order is fixed (flags, include dirs, defines, output,
// source) because compiler argument order carries override semantics: later
// flags win.
package synth

import (
	"path/filepath"
	"strings"

	"github.com/forgeline-labs/ccforge/internal/config"
	"github.com/forgeline-labs/ccforge/internal/toolchain"
)

// Record is one compilation-database entry, the shape consumed by language
// servers and other external tooling.
type Record struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
}

// ObjectPath returns the object file path for a source file compiled into
// outputDir. Objects are keyed by stem.
func ObjectPath(outputDir, sourceFile string) string {
	base := filepath.Base(sourceFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+".o")
}

// includeFlags builds -I tokens for a group: group includes first, then the
// declared external includes.
func includeFlags(cfg *config.ProjectConfig, group config.SourceGroup) []string {
	flags := make([]string, 0, len(group.IncludeDirs)+len(cfg.Dependencies.ExternalIncludes))
	for _, dir := range group.IncludeDirs {
		flags = append(flags, "-I"+dir)
	}
	for _, dir := range cfg.Dependencies.ExternalIncludes {
		flags = append(flags, "-I"+dir)
	}
	return flags
}

// MetadataRecord builds the compilation-database entry for a single source
// file. Flags are drawn directly from the project configuration; ambient
// environment overrides do not apply to exported metadata.
func MetadataRecord(cfg *config.ProjectConfig, group config.SourceGroup, sourceFile, workDir string) Record {
	parts := []string{cfg.CompilerPath()}

	if cfg.Project.Standard != "" {
		parts = append(parts, "-std="+cfg.Project.Standard)
	}

	parts = append(parts, cfg.Compiler.Flags...)
	parts = append(parts, group.Flags...)
	parts = append(parts, includeFlags(cfg, group)...)

	for _, d := range cfg.Compiler.Defines {
		parts = append(parts, "-D"+d)
	}
	for _, d := range group.Defines {
		parts = append(parts, "-D"+d)
	}

	parts = append(parts, "-c", "-o", ObjectPath(cfg.OutputDir(), sourceFile), sourceFile)

	return Record{
		Directory: workDir,
		Command:   strings.Join(parts, " "),
		File:      sourceFile,
	}
}

// CompileArgs builds the argument list for compiling one source file in a
// build. Unlike metadata records, flags come from the resolved environment so
// ambient overrides apply, and defines ride in CPPFLAGS rather than as
// separate tokens. It returns the argument list and the object file path.
func CompileArgs(cfg *config.ProjectConfig, group config.SourceGroup, sourceFile, outputDir string, env toolchain.Environment) ([]string, string) {
	isCPP := cfg.IsCPP()

	args := []string{env.Compiler(isCPP)}

	if cfg.Project.Standard != "" {
		args = append(args, "-std="+cfg.Project.Standard)
	}

	args = append(args, env.Fields(toolchain.FlagsVar(isCPP))...)
	args = append(args, env.Fields("CPPFLAGS")...)
	args = append(args, group.Flags...)
	args = append(args, includeFlags(cfg, group)...)

	objPath := ObjectPath(outputDir, sourceFile)
	args = append(args, "-c", sourceFile, "-o", objPath)

	return args, objPath
}

// LinkArgs builds the argument list for the final link step. Object file
// order matches the compilation order that produced them.
func LinkArgs(cfg *config.ProjectConfig, objects []string, outputPath string, env toolchain.Environment) []string {
	args := []string{env.Compiler(cfg.IsCPP())}
	args = append(args, objects...)
	args = append(args, env.Fields("LDFLAGS")...)
	args = append(args, "-o", outputPath)
	return args
}
