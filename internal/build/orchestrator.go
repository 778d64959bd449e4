// Package build drives the compile-then-link pipeline for a selected build
// mode. It validates the mode, resolves its source groups, compiles every
// discovered file, and links the collected objects, halting on the first
// failure.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/forgeline-labs/ccforge/internal/config"
	"github.com/forgeline-labs/ccforge/internal/discover"
	"github.com/forgeline-labs/ccforge/internal/synth"
	"github.com/forgeline-labs/ccforge/internal/toolchain"
)

// Reporter receives user-facing progress output. Verbose lines are only
// emitted when the caller enabled verbosity.
type Reporter interface {
	Progressf(format string, args ...any)
	Verbosef(format string, args ...any)
}

type nopReporter struct{}

func (nopReporter) Progressf(string, ...any) {}
func (nopReporter) Verbosef(string, ...any)  {}

// Options configures a single build invocation.
type Options struct {
	// Mode is the required build mode name.
	Mode string
	// OutputDir overrides the mode's configured output directory.
	OutputDir string
	// Jobs bounds parallel compilation. Zero or one compiles sequentially.
	Jobs int
	// Env overrides the ambient process environment; nil uses the real one.
	Env toolchain.Environment
}

// Result summarizes a completed build.
type Result struct {
	ID         string
	Mode       string
	OutputPath string
	Compiled   int
	Duration   time.Duration
}

// compileUnit pairs a discovered source file with the group that produced it.
type compileUnit struct {
	file  string
	group config.SourceGroup
}

// Orchestrator executes builds against a loaded project configuration.
type Orchestrator struct {
	cfg      *config.ProjectConfig
	runner   Runner
	logger   *slog.Logger
	reporter Reporter
}

// New creates an orchestrator. A nil runner defaults to real process
// execution; nil logger and reporter discard their output.
func New(cfg *config.ProjectConfig, runner Runner, logger *slog.Logger, reporter Reporter) *Orchestrator {
	if runner == nil {
		runner = &ExecRunner{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Orchestrator{cfg: cfg, runner: runner, logger: logger, reporter: reporter}
}

// Build runs the full pipeline for opts.Mode and returns the produced binary
// path. The first failing step aborts the build.
func (o *Orchestrator) Build(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	buildID := uuid.NewString()

	mode, ok := o.cfg.Mode(opts.Mode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModeNotFound, opts.Mode)
	}
	if len(mode.SourceGroups) == 0 {
		return nil, fmt.Errorf("%w: %q requires an explicit, non-empty source_groups list", ErrMissingSourceGroups, opts.Mode)
	}

	groups, err := o.resolveGroups(mode)
	if err != nil {
		return nil, err
	}

	ambient := opts.Env
	if ambient == nil {
		ambient = toolchain.Ambient()
	}
	env := toolchain.Resolve(o.cfg, mode, ambient)

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = o.cfg.ModeOutputDir(opts.Mode)
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	o.logger.Info("starting build", "build_id", buildID, "mode", opts.Mode, "output_dir", outputDir)
	o.reporter.Progressf("Building in %s mode...", opts.Mode)
	o.reporter.Progressf("Output directory: %s", outputDir)
	o.reporter.Progressf("Source groups: %s", strings.Join(mode.SourceGroups, ", "))
	o.reportEnv(env)

	units := o.resolveSources(groups)
	if len(units) == 0 {
		return nil, ErrNoSourceFiles
	}
	o.reporter.Progressf("Found %d source file(s) total", len(units))

	objects, err := o.compileAll(ctx, units, outputDir, env, opts.Jobs)
	if err != nil {
		return nil, err
	}

	outputPath := filepath.Join(outputDir, o.cfg.OutputName(opts.Mode))
	linkArgs := synth.LinkArgs(o.cfg, objects, outputPath, env)
	o.reporter.Verbosef("Link command: %s", strings.Join(linkArgs, " "))
	o.reporter.Progressf("Linking %s...", o.cfg.OutputName(opts.Mode))

	if err := o.runner.Run(ctx, linkArgs, env.Slice()); err != nil {
		o.logger.Error("link failed", "build_id", buildID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLinkFailed, err)
	}

	result := &Result{
		ID:         buildID,
		Mode:       opts.Mode,
		OutputPath: outputPath,
		Compiled:   len(units),
		Duration:   time.Since(start),
	}
	o.logger.Info("build completed", "build_id", buildID, "output", outputPath, "duration_ms", result.Duration.Milliseconds())
	return result, nil
}

// resolveGroups maps the mode's group names to their definitions. Every
// referenced name must exist; a miss is a hard validation error.
func (o *Orchestrator) resolveGroups(mode config.ModeConfig) ([]config.SourceGroup, error) {
	groups := make([]config.SourceGroup, 0, len(mode.SourceGroups))
	for _, name := range mode.SourceGroups {
		group, ok := o.cfg.GroupByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownSourceGroup, name, strings.Join(o.cfg.GroupNames(), ", "))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// resolveSources aggregates discovered files across the mode's groups in
// group order.
func (o *Orchestrator) resolveSources(groups []config.SourceGroup) []compileUnit {
	exts := discover.Extensions(o.cfg.IsCPP())

	var units []compileUnit
	for _, group := range groups {
		files := discover.FindSources(o.logger, group.SourceDirs, exts)
		o.reporter.Verbosef("Source group %q: %d file(s)", group.Name, len(files))
		for _, f := range files {
			units = append(units, compileUnit{file: f, group: group})
		}
	}
	return units
}

// compileAll compiles every unit and returns object paths in unit order.
// With jobs > 1 compilation runs in a bounded errgroup; the outcome is
// equivalent to sequential execution: the failure reported is the one
// belonging to the earliest unit, and linking never starts unless every
// compile succeeded.
func (o *Orchestrator) compileAll(ctx context.Context, units []compileUnit, outputDir string, env toolchain.Environment, jobs int) ([]string, error) {
	objects := make([]string, len(units))

	if jobs <= 1 {
		for i, u := range units {
			args, obj := synth.CompileArgs(o.cfg, u.group, u.file, outputDir, env)
			o.reporter.Verbosef("Command: %s", strings.Join(args, " "))
			o.reporter.Progressf("Compiling %s...", u.file)
			if err := o.runner.Run(ctx, args, env.Slice()); err != nil {
				return nil, &CompileError{File: u.file, Err: err}
			}
			objects[i] = obj
		}
		return objects, nil
	}

	errs := make([]error, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, u := range units {
		g.Go(func() error {
			args, obj := synth.CompileArgs(o.cfg, u.group, u.file, outputDir, env)
			o.reporter.Progressf("Compiling %s...", u.file)
			if err := o.runner.Run(gctx, args, env.Slice()); err != nil {
				errs[i] = &CompileError{File: u.file, Err: err}
				return errs[i]
			}
			objects[i] = obj
			return nil
		})
	}

	_ = g.Wait()

	// First failure in discovery order wins, regardless of completion order.
	// Units killed by group cancellation after another unit already failed
	// are collateral, not the cause; only report one if nothing else failed.
	var cancelled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if cancelled == nil {
				cancelled = err
			}
			continue
		}
		return nil, err
	}
	if cancelled != nil {
		return nil, cancelled
	}
	return objects, nil
}

// reportEnv echoes the recognized toolchain variables in verbose mode.
func (o *Orchestrator) reportEnv(env toolchain.Environment) {
	for _, name := range toolchain.RecognizedVars {
		if v, ok := env[name]; ok {
			o.reporter.Verbosef("  %s=%s", name, v)
		}
	}
}
