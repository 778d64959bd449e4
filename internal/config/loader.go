package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrNotFound is returned when the project description file does not exist.
var ErrNotFound = errors.New("project configuration not found")

// ErrParse is returned when the project description cannot be parsed.
var ErrParse = errors.New("invalid project configuration")

// Load reads and validates the project description at path.
func Load(path string) (*ProjectConfig, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	k := koanf.New(".")

	// Cosmetic defaults first, then the file on top.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"project.language": DefaultLanguage,
		"build.output":     DefaultOutputName,
		"build.output_dir": DefaultOutputDir,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	var cfg ProjectConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	return &cfg, nil
}
