// Package settings loads tool-level settings for the CLI with the usual
// precedence: defaults, then CCFORGE_-prefixed environment variables, then
// explicitly set flags. Toolchain variables (CC, CXX, ...) are deliberately
// not handled here; they belong to the ambient environment contract of the
// build itself.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/forgeline-labs/ccforge/internal/cli/output"
	"github.com/forgeline-labs/ccforge/internal/config"
)

// EnvPrefix is the prefix for tool-level environment overrides.
const EnvPrefix = "CCFORGE_"

// Settings holds CLI-wide options shared by all commands.
type Settings struct {
	ConfigPath string `koanf:"config"`
	Format     string `koanf:"format"`
	Verbose    bool   `koanf:"verbose"`
}

// Load resolves settings from defaults, environment, and flags.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"config":  config.DefaultConfigFile,
		"format":  string(output.ModeAuto),
		"verbose": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// CCFORGE_CONFIG -> config, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	return &s, nil
}

type settingsKey struct{}
type rendererKey struct{}
type loggerKey struct{}

// WithRuntime stores the per-invocation collaborators in the context.
func WithRuntime(ctx context.Context, s *Settings, r *output.Renderer, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, settingsKey{}, s)
	ctx = context.WithValue(ctx, rendererKey{}, r)
	ctx = context.WithValue(ctx, loggerKey{}, logger)
	return ctx
}

// FromContext retrieves the settings, falling back to defaults.
func FromContext(ctx context.Context) *Settings {
	if s, ok := ctx.Value(settingsKey{}).(*Settings); ok {
		return s
	}
	return &Settings{ConfigPath: config.DefaultConfigFile, Format: string(output.ModeAuto)}
}

// RendererFromContext retrieves the renderer, falling back to a discard
// renderer so library code never nil-checks.
func RendererFromContext(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(discardWriter{}, discardWriter{}, output.ModeText, false)
}

// LoggerFromContext retrieves the logger, falling back to discard.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
