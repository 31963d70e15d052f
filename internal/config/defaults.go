package config

import (
	"git.home.luguber.info/inful/bookctl/internal/discovery"
	"git.home.luguber.info/inful/bookctl/internal/lint"
	"git.home.luguber.info/inful/bookctl/internal/srcdocs"
)

const (
	DefaultBookDir      = "openmdao_book"
	DefaultTimeout      = 600
	DefaultKernel       = "python3"
	DefaultRunPath      = "."
	DefaultStartupGrace = "60s"
	DefaultDebounce     = "500ms"
	DefaultProject      = "openmdao"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

// BookDefaultApplier handles Book configuration defaults.
type BookDefaultApplier struct{}

func (BookDefaultApplier) Domain() string { return "book" }

func (BookDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Book.Dir == "" {
		cfg.Book.Dir = DefaultBookDir
	}
	if len(cfg.Book.Patterns) == 0 {
		cfg.Book.Patterns = append([]string(nil), discovery.DefaultPatterns...)
	}
	if cfg.Book.Exclude == nil {
		cfg.Book.Exclude = append([]string(nil), discovery.DefaultExclude...)
	}
}

// RunDefaultApplier handles Run configuration defaults.
type RunDefaultApplier struct{}

func (RunDefaultApplier) Domain() string { return "run" }

func (RunDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Run.Timeout == 0 {
		cfg.Run.Timeout = DefaultTimeout
	}
	if cfg.Run.Kernel == "" {
		cfg.Run.Kernel = DefaultKernel
	}
	if cfg.Run.RunPath == "" {
		cfg.Run.RunPath = DefaultRunPath
	}
	if len(cfg.Run.Engine) == 0 {
		cfg.Run.Engine = []string{"jupyter", "nbconvert"}
	}
	if cfg.Run.StartupGrace == "" {
		cfg.Run.StartupGrace = DefaultStartupGrace
	}
}

// LintDefaultApplier handles Lint configuration defaults.
type LintDefaultApplier struct{}

func (LintDefaultApplier) Domain() string { return "lint" }

func (LintDefaultApplier) ApplyDefaults(cfg *Config) {
	if len(cfg.Lint.Header) == 0 {
		cfg.Lint.Header = append([]string(nil), lint.DefaultHeader...)
	}
	if cfg.Lint.SkipNotebooks == nil {
		cfg.Lint.SkipNotebooks = append([]string(nil), lint.DefaultSkipNotebooks...)
	}
	if cfg.Lint.Exclude == nil {
		cfg.Lint.Exclude = append([]string(nil), lint.DefaultExcludeDirs...)
	}
}

// SrcDocsDefaultApplier handles SrcDocs configuration defaults.
type SrcDocsDefaultApplier struct{}

func (SrcDocsDefaultApplier) Domain() string { return "srcdocs" }

func (SrcDocsDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.SrcDocs.Project == "" {
		cfg.SrcDocs.Project = DefaultProject
	}
	if cfg.SrcDocs.SourceRoot == "" {
		cfg.SrcDocs.SourceRoot = "."
	}
	if len(cfg.SrcDocs.Packages) == 0 {
		cfg.SrcDocs.Packages = append([]string(nil), srcdocs.DefaultPackages...)
	}
}

// BuildDefaultApplier handles Build configuration defaults.
type BuildDefaultApplier struct{}

func (BuildDefaultApplier) Domain() string { return "build" }

func (BuildDefaultApplier) ApplyDefaults(cfg *Config) {
	if len(cfg.Build.Command) == 0 {
		cfg.Build.Command = []string{"jupyter-book"}
	}
	if len(cfg.Build.Artifacts) == 0 {
		cfg.Build.Artifacts = []string{"*.html", "*.png"}
	}
}

// WatchDefaultApplier handles Watch configuration defaults.
type WatchDefaultApplier struct{}

func (WatchDefaultApplier) Domain() string { return "watch" }

func (WatchDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultDebounce
	}
}

var appliers = []DefaultApplier{
	BookDefaultApplier{},
	RunDefaultApplier{},
	LintDefaultApplier{},
	SrcDocsDefaultApplier{},
	BuildDefaultApplier{},
	WatchDefaultApplier{},
}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) {
	for _, a := range appliers {
		a.ApplyDefaults(cfg)
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	ApplyDefaults(cfg)
	return cfg
}
