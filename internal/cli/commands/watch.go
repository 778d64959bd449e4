package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgeline-labs/ccforge/internal/cli/settings"
	"github.com/forgeline-labs/ccforge/internal/compiledb"
	"github.com/forgeline-labs/ccforge/internal/config"
	"github.com/forgeline-labs/ccforge/internal/discover"
	"github.com/forgeline-labs/ccforge/internal/watch"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Output   string
	Interval int
	Events   bool
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch source trees and regenerate compile_commands.json on change",
		Long: `Watch all source and include directories declared in the project
configuration and regenerate the compilation database whenever a source or
header file is added, removed, or modified. Runs until interrupted.

Change detection polls directory snapshots on a fixed interval. Pass
--events to use OS file events instead.`,
		Example: `  # Watch with defaults (2 second poll interval)
  ccforge watch

  # Watch with a 5 second interval
  ccforge watch --interval 5

  # Use OS file events instead of polling
  ccforge watch --events`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", compiledb.DefaultOutputFile, "Output file")
	cmd.Flags().IntVarP(&opts.Interval, "interval", "i", 2, "Poll interval in seconds")
	cmd.Flags().BoolVar(&opts.Events, "events", false, "Use OS file events instead of polling")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	s := settings.FromContext(cmd.Context())
	r := settings.RendererFromContext(cmd.Context())
	logger := settings.LoggerFromContext(cmd.Context())

	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return err
	}

	dirs := watch.WatchedDirs(cfg)

	// Generate once immediately on startup.
	entries, err := regenerate(s.ConfigPath, opts.Output, logger)
	if err != nil {
		return err
	}
	r.Successf("%s generated (%d entries)", opts.Output, entries)
	r.Progressf("Watching %d dir(s)... Ctrl+C to stop", len(dirs))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watch.New(watch.Options{
		Dirs:       dirs,
		Extensions: discover.WatchExtensions(cfg.IsCPP()),
		Interval:   time.Duration(opts.Interval) * time.Second,
		UseEvents:  opts.Events,
		Logger:     logger,
		OnChange: func(context.Context) error {
			n, err := regenerate(s.ConfigPath, opts.Output, logger)
			if err != nil {
				return err
			}
			r.Successf("%s updated (%d entries)", opts.Output, n)
			return nil
		},
	})

	if err := w.Run(ctx); err != nil {
		return err
	}
	r.Progressf("Watch stopped.")
	return nil
}
