package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	bcerrors "git.home.luguber.info/inful/bookctl/internal/errors"
	"git.home.luguber.info/inful/bookctl/internal/logfields"
)

// CurrentVersion is the configuration format version written by Init.
const CurrentVersion = "1"

// envFiles are loaded before the configuration is expanded. Variables
// already set in the process environment are never overridden.
var envFiles = []string{".env", ".env.local"}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, bcerrors.ConfigInvalid(path, fmt.Errorf("configuration file not found: %w", err))
		}
		return nil, bcerrors.ConfigInvalid(path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, bcerrors.ConfigInvalid(path, fmt.Errorf("failed to unmarshal config: %w", err))
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, bcerrors.ConfigInvalid(path, err)
	}
	return &cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		loadEnvFiles()
		slog.Debug("No configuration file, using defaults", logfields.Path(path))
		return Default(), nil
	}
	return Load(path)
}

func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Failed to load environment file", logfields.File(f), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.File(f))
	}
}

// Init writes an example configuration file holding the defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
