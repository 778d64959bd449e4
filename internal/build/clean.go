package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// artifactExts are the suffixes removed by clean: objects and executables.
// Empty suffix covers unix binaries.
var artifactExts = map[string]bool{".o": true, "": true, ".exe": true, ".elf": true}

// Clean removes build artifacts for one mode, or for every declared mode when
// modeName is empty. outputDirOverride applies only when a single mode is
// named. Returns the number of files removed; a missing directory is a no-op.
func (o *Orchestrator) Clean(modeName, outputDirOverride string) (int, error) {
	if modeName == "" {
		names := make([]string, 0, len(o.cfg.Build.Modes))
		for name := range o.cfg.Build.Modes {
			names = append(names, name)
		}
		sort.Strings(names)

		total := 0
		for _, name := range names {
			n, err := o.cleanDir(o.cfg.ModeOutputDir(name))
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil
	}

	if _, ok := o.cfg.Mode(modeName); !ok {
		return 0, fmt.Errorf("%w: %q", ErrModeNotFound, modeName)
	}

	dir := outputDirOverride
	if dir == "" {
		dir = o.cfg.ModeOutputDir(modeName)
	}
	return o.cleanDir(dir)
}

// cleanDir removes artifacts directly inside dir (non-recursive) and removes
// the directory itself if nothing is left.
func (o *Orchestrator) cleanDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			o.reporter.Progressf("Build directory %q does not exist, nothing to clean", dir)
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	o.reporter.Verbosef("Cleaning %q...", dir)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !artifactExts[filepath.Ext(entry.Name())] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		o.reporter.Verbosef("  Removed %s", path)
		removed++
	}

	remaining, err := os.ReadDir(dir)
	if err == nil && len(remaining) == 0 {
		if err := os.Remove(dir); err == nil {
			o.reporter.Verbosef("  Removed empty directory %q", dir)
		}
	}

	o.logger.Info("cleaned build directory", "dir", dir, "removed", removed)
	return removed, nil
}
