// Package discover enumerates project source files by extension.
package discover

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Extensions returns the set of source file extensions compiled for the
// given project language.
func Extensions(isCPP bool) map[string]bool {
	if isCPP {
		return map[string]bool{".cpp": true, ".cc": true, ".cxx": true}
	}
	return map[string]bool{".c": true}
}

// WatchExtensions returns the extension set used for change detection.
// Headers are watched but never compiled.
func WatchExtensions(isCPP bool) map[string]bool {
	exts := Extensions(isCPP)
	exts[".h"] = true
	if isCPP {
		exts[".hpp"] = true
	}
	return exts
}

// FindSources recursively enumerates files under dirs whose extension is in
// exts. Directories that do not exist are logged and skipped; they are never
// an error since a group may legitimately enumerate only a subset of its
// declared directories. The result is lexicographically sorted for
// reproducible output.
func FindSources(logger *slog.Logger, dirs []string, exts map[string]bool) []string {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var files []string
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			logger.Warn("source directory does not exist, skipping", "dir", dir)
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if exts[filepath.Ext(path)] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			logger.Warn("failed to walk source directory", "dir", dir, "error", err)
		}
	}

	sort.Strings(files)
	return files
}
