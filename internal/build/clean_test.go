package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeline-labs/ccforge/internal/config"
	"github.com/forgeline-labs/ccforge/internal/testutil"
)

func cleanFixture(t *testing.T) (*config.ProjectConfig, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.ProjectConfig{
		Build: config.BuildSection{
			Modes: map[string]config.ModeConfig{
				"debug":   {OutputDir: filepath.Join(root, "build", "debug")},
				"release": {OutputDir: filepath.Join(root, "build", "release")},
			},
		},
	}
	return cfg, root
}

func populate(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("bin"), 0o644))
	}
}

func TestClean(t *testing.T) {
	cfg, root := cleanFixture(t)
	dir := filepath.Join(root, "build", "debug")
	populate(t, dir, "a.o", "b.o", "prog")

	orch := New(cfg, &fakeRunner{}, testutil.NewTestLogger(t), nil)

	n, err := orch.Clean("debug", "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Directory is gone once empty.
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCleanKeepsForeignFiles(t *testing.T) {
	cfg, root := cleanFixture(t)
	dir := filepath.Join(root, "build", "debug")
	populate(t, dir, "a.o", "notes.txt")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))

	orch := New(cfg, &fakeRunner{}, testutil.NewTestLogger(t), nil)

	n, err := orch.Clean("debug", "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Non-artifacts and subdirectories survive, so the dir stays.
	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "sub"))
	assert.NoError(t, err)
}

func TestCleanIsIdempotent(t *testing.T) {
	cfg, root := cleanFixture(t)
	populate(t, filepath.Join(root, "build", "debug"), "a.o")

	orch := New(cfg, &fakeRunner{}, testutil.NewTestLogger(t), nil)

	n, err := orch.Clean("debug", "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = orch.Clean("debug", "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCleanMissingDirIsNoop(t *testing.T) {
	cfg, _ := cleanFixture(t)
	orch := New(cfg, &fakeRunner{}, testutil.NewTestLogger(t), nil)

	n, err := orch.Clean("debug", "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCleanAllModes(t *testing.T) {
	cfg, root := cleanFixture(t)
	populate(t, filepath.Join(root, "build", "debug"), "a.o", "prog")
	populate(t, filepath.Join(root, "build", "release"), "a.o", "prog.exe")

	orch := New(cfg, &fakeRunner{}, testutil.NewTestLogger(t), nil)

	n, err := orch.Clean("", "")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCleanUnknownMode(t *testing.T) {
	cfg, _ := cleanFixture(t)
	orch := New(cfg, &fakeRunner{}, testutil.NewTestLogger(t), nil)

	_, err := orch.Clean("nope", "")
	assert.ErrorIs(t, err, ErrModeNotFound)
}

func TestCleanOutputDirOverride(t *testing.T) {
	cfg, root := cleanFixture(t)
	custom := filepath.Join(root, "custom")
	populate(t, custom, "x.o", "x.elf")

	orch := New(cfg, &fakeRunner{}, testutil.NewTestLogger(t), nil)

	n, err := orch.Clean("debug", custom)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
