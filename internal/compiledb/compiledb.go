// Package compiledb generates and persists the compilation database
// (compile_commands.json) consumed by language servers.
package compiledb

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/forgeline-labs/ccforge/internal/config"
	"github.com/forgeline-labs/ccforge/internal/discover"
	"github.com/forgeline-labs/ccforge/internal/synth"
)

// DefaultOutputFile is the conventional compilation database name.
const DefaultOutputFile = "compile_commands.json"

// ErrWrite is returned when the database cannot be persisted.
var ErrWrite = errors.New("failed to write compilation database")

// ErrVerify is returned when the written database fails to re-parse as JSON.
var ErrVerify = errors.New("generated compilation database is not valid JSON")

// Generate produces one record per discovered source file across every
// declared source group, in group declaration order with files sorted within
// each group. The database is never mode-filtered: editor tooling needs the
// whole project.
func Generate(cfg *config.ProjectConfig, logger *slog.Logger) ([]synth.Record, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	exts := discover.Extensions(cfg.IsCPP())

	var records []synth.Record
	for _, group := range cfg.SourceGroups {
		files := discover.FindSources(logger, group.SourceDirs, exts)
		logger.Debug("processed source group", "group", group.Name, "files", len(files))

		for _, f := range files {
			records = append(records, synth.MetadataRecord(cfg, group, f, workDir))
		}
	}

	return records, nil
}

// Write persists records as indented JSON. The file is written to a temp
// file and renamed so a cancelled or failed write never leaves a corrupt
// database behind, then read back and re-parsed; failing that verification
// is an error, never a warning.
func Write(path string, records []synth.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode compilation database: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ccforge-*.json")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	// CreateTemp makes the file 0600; the database is world-readable.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	return verify(path)
}

// verify re-reads the written file and checks it round-trips as JSON.
func verify(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read back %s: %w", path, err)
	}
	var records []synth.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrVerify, path, err)
	}
	return nil
}
