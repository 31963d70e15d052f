package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/bookctl/internal/discovery"
	"git.home.luguber.info/inful/bookctl/internal/errors"
)

// Validate checks a configuration after defaults have been applied.
func Validate(cfg *Config) error {
	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return errors.ValidationFailed("version", fmt.Sprintf("unsupported configuration version %q (expected %s)", cfg.Version, CurrentVersion))
	}
	if cfg.Run.Timeout <= 0 {
		return errors.ValidationFailed("run.timeout", "must be a positive number of seconds")
	}
	if cfg.Run.Kernel == "" {
		return errors.ValidationFailed("run.kernel", "must not be empty")
	}
	if len(cfg.Book.Patterns) == 0 {
		return errors.ValidationFailed("book.patterns", "at least one pattern is required")
	}
	if err := discovery.ValidatePatterns(cfg.Book.Patterns); err != nil {
		return errors.ValidationFailed("book.patterns", err.Error())
	}
	if err := discovery.ValidatePatterns(cfg.Build.Artifacts); err != nil {
		return errors.ValidationFailed("build.artifacts", err.Error())
	}
	if err := validateDuration("run.startup_grace", cfg.Run.StartupGrace); err != nil {
		return err
	}
	if err := validateDuration("watch.debounce", cfg.Watch.Debounce); err != nil {
		return err
	}
	return nil
}

func validateDuration(field, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.ValidationFailed(field, fmt.Sprintf("invalid duration %q", value))
	}
	if d < 0 {
		return errors.ValidationFailed(field, "must not be negative")
	}
	return nil
}
