// Package toolchain derives the compiler environment for a build mode.
//
// Variables already present in the ambient process environment are treated
// as authoritative and never overwritten, so a caller can redirect the whole
// toolchain (e.g. for cross-compilation) without editing the project file.
package toolchain

import (
	"os"
	"sort"
	"strings"

	"github.com/forgeline-labs/ccforge/internal/config"
)

// Recognized toolchain variables, in the order they are reported.
var RecognizedVars = []string{"CC", "CXX", "CFLAGS", "CXXFLAGS", "CPPFLAGS", "LDFLAGS"}

// Environment is the resolved, mode-scoped toolchain environment.
type Environment map[string]string

// Ambient captures the current process environment.
func Ambient() Environment {
	env := make(Environment)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// CompilerVar returns the variable naming the compiler for the language.
func CompilerVar(isCPP bool) string {
	if isCPP {
		return "CXX"
	}
	return "CC"
}

// FlagsVar returns the variable naming the compile flags for the language.
func FlagsVar(isCPP bool) string {
	if isCPP {
		return "CXXFLAGS"
	}
	return "CFLAGS"
}

// Resolve builds the toolchain environment for a build mode. It starts from a
// copy of ambient and only fills variables that are absent; nothing already
// set is cleared or mutated.
func Resolve(cfg *config.ProjectConfig, mode config.ModeConfig, ambient Environment) Environment {
	env := make(Environment, len(ambient)+4)
	for k, v := range ambient {
		env[k] = v
	}

	isCPP := cfg.IsCPP()

	if _, ok := env[CompilerVar(isCPP)]; !ok {
		env[CompilerVar(isCPP)] = cfg.CompilerPath()
	}

	if _, ok := env[FlagsVar(isCPP)]; !ok {
		flags := append([]string{}, cfg.Compiler.Flags...)
		flags = append(flags, mode.ExtraFlags...)
		env[FlagsVar(isCPP)] = strings.Join(flags, " ")
	}

	if _, ok := env["CPPFLAGS"]; !ok {
		defines := make([]string, 0, len(cfg.Compiler.Defines))
		for _, d := range cfg.Compiler.Defines {
			defines = append(defines, "-D"+d)
		}
		if len(defines) > 0 {
			env["CPPFLAGS"] = strings.Join(defines, " ")
		}
	}

	if _, ok := env["LDFLAGS"]; !ok {
		ldflags := append([]string{}, cfg.Build.Linker.Flags...)
		ldflags = append(ldflags, mode.LinkerFlags...)
		if len(ldflags) > 0 {
			env["LDFLAGS"] = strings.Join(ldflags, " ")
		}
	}

	return env
}

// Compiler returns the resolved compiler for the language.
func (e Environment) Compiler(isCPP bool) string {
	return e[CompilerVar(isCPP)]
}

// Fields splits a space-joined variable into tokens. An unset or empty
// variable yields no tokens.
func (e Environment) Fields(name string) []string {
	return strings.Fields(e[name])
}

// Slice renders the environment as KEY=VALUE pairs for process execution,
// sorted for deterministic logs.
func (e Environment) Slice() []string {
	kvs := make([]string, 0, len(e))
	for k, v := range e {
		kvs = append(kvs, k+"="+v)
	}
	sort.Strings(kvs)
	return kvs
}
