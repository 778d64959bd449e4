package compiledb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeline-labs/ccforge/internal/config"
	"github.com/forgeline-labs/ccforge/internal/synth"
	"github.com/forgeline-labs/ccforge/internal/testutil"
)

func projectFixture(t *testing.T) *config.ProjectConfig {
	t.Helper()
	root := t.TempDir()
	for _, p := range []string{
		filepath.Join(root, "src", "main.c"),
		filepath.Join(root, "src", "util.c"),
		filepath.Join(root, "lib", "extra.c"),
		filepath.Join(root, "src", "header.h"),
	} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("int x;\n"), 0o644))
	}

	return &config.ProjectConfig{
		Project:  config.ProjectSection{Language: "c", Standard: "c11"},
		Compiler: config.CompilerSection{CompilerPath: "gcc", Flags: []string{"-Wall"}},
		SourceGroups: []config.SourceGroup{
			{Name: "core", SourceDirs: []string{filepath.Join(root, "src")}},
			{Name: "extras", SourceDirs: []string{filepath.Join(root, "lib")}},
		},
	}
}

func TestGenerate(t *testing.T) {
	cfg := projectFixture(t)

	records, err := Generate(cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Group declaration order, files sorted within each group.
	assert.Equal(t, "main.c", filepath.Base(records[0].File))
	assert.Equal(t, "util.c", filepath.Base(records[1].File))
	assert.Equal(t, "extra.c", filepath.Base(records[2].File))

	wd, err := os.Getwd()
	require.NoError(t, err)
	for _, rec := range records {
		assert.Equal(t, wd, rec.Directory)
		assert.Contains(t, rec.Command, "gcc -std=c11 -Wall")
		assert.Contains(t, rec.Command, rec.File)
	}

	// Every source appears exactly once.
	seen := make(map[string]int)
	for _, rec := range records {
		seen[rec.File]++
	}
	for file, n := range seen {
		assert.Equal(t, 1, n, "file %s duplicated", file)
	}
}

func TestGenerateEmptyProject(t *testing.T) {
	cfg := &config.ProjectConfig{
		SourceGroups: []config.SourceGroup{
			{Name: "core", SourceDirs: []string{filepath.Join(t.TempDir(), "nowhere")}},
		},
	}

	records, err := Generate(cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultOutputFile)
	records := []synth.Record{
		{Directory: "/work", Command: "gcc -c -o build/main.o src/main.c", File: "src/main.c"},
		{Directory: "/work", Command: "gcc -c -o build/util.o src/util.c", File: "src/util.c"},
	}

	require.NoError(t, Write(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []synth.Record
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, records, got)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultOutputFile)

	require.NoError(t, Write(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestWriteFailsOnMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nowhere", DefaultOutputFile)

	err := Write(path, []synth.Record{{Directory: "/w", Command: "gcc", File: "a.c"}})
	assert.ErrorIs(t, err, ErrWrite)
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultOutputFile)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, Write(path, []synth.Record{{Directory: "/w", Command: "gcc", File: "a.c"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "a.c")
}
