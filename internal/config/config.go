// Package config loads the optional bookctl.yaml configuration file.
package config

import "time"

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "bookctl.yaml"

// Config represents the bookctl configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Book    BookConfig    `yaml:"book"`
	Run     RunConfig     `yaml:"run"`
	Lint    LintConfig    `yaml:"lint"`
	SrcDocs SrcDocsConfig `yaml:"srcdocs"`
	Build   BuildConfig   `yaml:"build"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// BookConfig locates the book and its content files.
type BookConfig struct {
	Dir      string   `yaml:"dir"`      // Book root directory
	Patterns []string `yaml:"patterns"` // Content file globs
	Exclude  []string `yaml:"exclude"`  // Directory names never descended into
}

// RunConfig configures notebook execution.
type RunConfig struct {
	Timeout      int      `yaml:"timeout"`       // Per-cell timeout in seconds
	Kernel       string   `yaml:"kernel"`        // Kernel name handed to the engine
	RunPath      string   `yaml:"run_path"`      // Engine working directory
	NotebookDir  bool     `yaml:"notebook_dir"`  // Run each notebook from its own directory
	Engine       []string `yaml:"engine"`        // Engine binary and leading arguments
	StartupGrace string   `yaml:"startup_grace"` // Added to the wall-clock bound
}

// LintConfig configures the notebook linter.
type LintConfig struct {
	Header        []string `yaml:"header"`         // Required first code cell, one entry per line
	SkipNotebooks []string `yaml:"skip_notebooks"` // Notebooks exempt from the header rule
	Exclude       []string `yaml:"exclude"`        // Directory names never linted
}

// SrcDocsConfig configures reference stub generation.
type SrcDocsConfig struct {
	SourceRoot string   `yaml:"source_root"` // Directory containing the project package
	Project    string   `yaml:"project"`     // Top-level package name
	Packages   []string `yaml:"packages"`    // Dotted package names to document
}

// BuildConfig configures the jupyter-book wrapper.
type BuildConfig struct {
	Command   []string `yaml:"command"`   // jupyter-book binary and leading arguments
	Artifacts []string `yaml:"artifacts"` // Globs copied into the HTML output
	Clean     bool     `yaml:"clean"`     // Clean before every build
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node-exporter textfile written after each run
	Listen   string `yaml:"listen"`   // Address serving /metrics while watching
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// TimeoutDuration returns the per-cell timeout.
func (r RunConfig) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}

// StartupGraceDuration returns the parsed start-up grace. Validate guarantees it parses.
func (r RunConfig) StartupGraceDuration() time.Duration {
	d, _ := time.ParseDuration(r.StartupGrace)
	return d
}

// DebounceDuration returns the parsed debounce. Validate guarantees it parses.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}
