package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeline-labs/ccforge/internal/testutil"
)

func touch(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestExtensions(t *testing.T) {
	c := Extensions(false)
	assert.True(t, c[".c"])
	assert.False(t, c[".cpp"])

	cpp := Extensions(true)
	assert.True(t, cpp[".cpp"])
	assert.True(t, cpp[".cc"])
	assert.True(t, cpp[".cxx"])
	assert.False(t, cpp[".c"])
}

func TestWatchExtensions(t *testing.T) {
	c := WatchExtensions(false)
	assert.True(t, c[".h"])
	assert.False(t, c[".hpp"])

	cpp := WatchExtensions(true)
	assert.True(t, cpp[".h"])
	assert.True(t, cpp[".hpp"])
	assert.True(t, cpp[".cpp"])
}

func TestFindSources(t *testing.T) {
	root := t.TempDir()
	touch(t,
		filepath.Join(root, "src", "main.c"),
		filepath.Join(root, "src", "util", "buf.c"),
		filepath.Join(root, "src", "util", "buf.h"),
		filepath.Join(root, "src", "notes.txt"),
	)

	files := FindSources(testutil.NewTestLogger(t), []string{filepath.Join(root, "src")}, map[string]bool{".c": true})

	assert.Equal(t, []string{
		filepath.Join(root, "src", "main.c"),
		filepath.Join(root, "src", "util", "buf.c"),
	}, files)
}

func TestFindSourcesSorted(t *testing.T) {
	root := t.TempDir()
	touch(t,
		filepath.Join(root, "b", "z.c"),
		filepath.Join(root, "a", "m.c"),
	)

	// Later directory listed first; output is still globally sorted.
	files := FindSources(testutil.NewTestLogger(t), []string{filepath.Join(root, "b"), filepath.Join(root, "a")}, map[string]bool{".c": true})

	assert.Equal(t, []string{
		filepath.Join(root, "a", "m.c"),
		filepath.Join(root, "b", "z.c"),
	}, files)
}

func TestFindSourcesSkipsMissingDir(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "src", "main.c"))

	files := FindSources(testutil.NewTestLogger(t),
		[]string{filepath.Join(root, "gone"), filepath.Join(root, "src")},
		map[string]bool{".c": true})
	assert.Len(t, files, 1)
}

func TestFindSourcesCPP(t *testing.T) {
	root := t.TempDir()
	touch(t,
		filepath.Join(root, "src", "app.cpp"),
		filepath.Join(root, "src", "lib.cc"),
		filepath.Join(root, "src", "old.cxx"),
		filepath.Join(root, "src", "legacy.c"),
	)

	files := FindSources(testutil.NewTestLogger(t), []string{filepath.Join(root, "src")}, Extensions(true))
	assert.Len(t, files, 3)
	assert.NotContains(t, files, filepath.Join(root, "src", "legacy.c"))
}
