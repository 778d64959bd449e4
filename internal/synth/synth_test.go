package synth

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgeline-labs/ccforge/internal/config"
	"github.com/forgeline-labs/ccforge/internal/toolchain"
)

func testConfig() *config.ProjectConfig {
	return &config.ProjectConfig{
		Project: config.ProjectSection{Language: "c", Standard: "c11"},
		Compiler: config.CompilerSection{
			CompilerPath: "gcc",
			Flags:        []string{"-Wall", "-Wextra"},
			Defines:      []string{"DEBUG_LOG"},
		},
		Build: config.BuildSection{OutputDir: "build/"},
		Dependencies: config.DependenciesSection{
			ExternalIncludes: []string{"vendor/include"},
		},
	}
}

func testGroup() config.SourceGroup {
	return config.SourceGroup{
		Name:        "core",
		SourceDirs:  []string{"src"},
		IncludeDirs: []string{"include"},
		Flags:       []string{"-fPIC"},
		Defines:     []string{"CORE"},
	}
}

func TestObjectPath(t *testing.T) {
	assert.Equal(t, filepath.Join("build", "main.o"), ObjectPath("build", "src/main.c"))
	assert.Equal(t, filepath.Join("out", "buf.o"), ObjectPath("out", "src/util/buf.cpp"))
}

func TestMetadataRecord(t *testing.T) {
	rec := MetadataRecord(testConfig(), testGroup(), "src/main.c", "/work")

	assert.Equal(t, "/work", rec.Directory)
	assert.Equal(t, "src/main.c", rec.File)

	obj := ObjectPath("build/", "src/main.c")
	assert.Equal(t,
		"gcc -std=c11 -Wall -Wextra -fPIC -Iinclude -Ivendor/include -DDEBUG_LOG -DCORE -c -o "+obj+" src/main.c",
		rec.Command)
}

func TestMetadataRecordNoStandard(t *testing.T) {
	cfg := testConfig()
	cfg.Project.Standard = ""

	rec := MetadataRecord(cfg, config.SourceGroup{Name: "core"}, "src/main.c", "/work")

	assert.NotContains(t, rec.Command, "-std=")
	obj := ObjectPath("build/", "src/main.c")
	assert.Equal(t, "gcc -Wall -Wextra -Ivendor/include -DDEBUG_LOG -c -o "+obj+" src/main.c", rec.Command)
}

func TestIncludeOrderGroupBeforeExternal(t *testing.T) {
	rec := MetadataRecord(testConfig(), testGroup(), "src/main.c", "/work")

	group := strings.Index(rec.Command, "-Iinclude")
	external := strings.Index(rec.Command, "-Ivendor/include")
	assert.GreaterOrEqual(t, group, 0)
	assert.GreaterOrEqual(t, external, 0)
	assert.Less(t, group, external, "group includes must precede external includes")
}

func TestCompileArgs(t *testing.T) {
	env := toolchain.Environment{
		"CC":       "gcc",
		"CFLAGS":   "-Wall -g",
		"CPPFLAGS": "-DDEBUG_LOG",
	}

	args, obj := CompileArgs(testConfig(), testGroup(), "src/main.c", "build/debug", env)

	assert.Equal(t, filepath.Join("build/debug", "main.o"), obj)
	assert.Equal(t, []string{
		"gcc", "-std=c11",
		"-Wall", "-g",
		"-DDEBUG_LOG",
		"-fPIC",
		"-Iinclude", "-Ivendor/include",
		"-c", "src/main.c", "-o", obj,
	}, args)
}

func TestCompileArgsAmbientCompilerWins(t *testing.T) {
	env := toolchain.Environment{"CC": "clang", "CFLAGS": "-O2"}

	args, _ := CompileArgs(testConfig(), testGroup(), "src/main.c", "build/release", env)

	assert.Equal(t, "clang", args[0])
}

func TestLinkArgs(t *testing.T) {
	env := toolchain.Environment{"CC": "gcc", "LDFLAGS": "-lm -s"}
	objects := []string{"build/debug/a.o", "build/debug/b.o"}

	args := LinkArgs(testConfig(), objects, "build/debug/prog", env)

	assert.Equal(t, []string{
		"gcc",
		"build/debug/a.o", "build/debug/b.o",
		"-lm", "-s",
		"-o", "build/debug/prog",
	}, args)
}

func TestLinkArgsNoLDFLAGS(t *testing.T) {
	env := toolchain.Environment{"CC": "gcc"}

	args := LinkArgs(testConfig(), []string{"a.o"}, "prog", env)

	assert.Equal(t, []string{"gcc", "a.o", "-o", "prog"}, args)
}
