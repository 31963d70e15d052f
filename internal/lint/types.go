package lint

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but don't fail the check.
	SeverityWarning
	// SeverityError indicates issues that fail the check.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem found in a notebook.
type Issue struct {
	FilePath    string   // Path to the notebook as it was linted
	Severity    Severity // Issue severity level
	Rule        string   // Rule identifier (e.g., "no-stored-output")
	Message     string   // Brief description of the issue
	Explanation string   // Detailed explanation with context
	Fix         string   // Suggested fix or command to resolve
	Cell        int      // Zero-based cell index, -1 for notebook-level issues
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue
	FilesTotal int // Total notebooks scanned
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	return r.WarningCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Files returns the distinct paths carrying an issue of the given rule, in
// the order they were first reported.
func (r *Result) Files(rule string) []string {
	seen := map[string]bool{}
	var files []string
	for _, issue := range r.Issues {
		if issue.Rule != rule || seen[issue.FilePath] {
			continue
		}
		seen[issue.FilePath] = true
		files = append(files, issue.FilePath)
	}
	return files
}

// Rule defines a linting rule applied to parsed notebooks.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check validates a notebook and returns any issues found.
	Check(filePath string, nb *notebook.Notebook) []Issue

	// AppliesTo returns true if this rule should be checked for the given file.
	AppliesTo(filePath string) bool
}

// Config contains configuration for the linter.
type Config struct {
	// Quiet suppresses warnings, only showing errors.
	Quiet bool

	// Format specifies output format (text, json).
	Format string

	// Fix enables clearing stored outputs in place.
	Fix bool

	// DryRun shows what would be fixed without applying changes.
	DryRun bool

	// Header is the required first code cell, one entry per line.
	Header []string

	// SkipNotebooks names notebooks exempt from the header rule.
	SkipNotebooks []string

	// ExcludeDirs names directories never descended into.
	ExcludeDirs []string
}

var (
	// DefaultHeader is the install cell every notebook must start with.
	DefaultHeader = []string{
		"try:",
		"    import openmdao.api as om",
		"except ImportError:",
		"    !python -m pip install openmdao[notebooks]",
	}
	// DefaultSkipNotebooks are exempt from the header rule.
	DefaultSkipNotebooks = []string{"notebooks.ipynb"}
	// DefaultExcludeDirs are pruned when linting a directory.
	DefaultExcludeDirs = []string{"tests", "test", "_build", ".ipynb_checkpoints"}
)

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Format:        "text",
		Header:        append([]string(nil), DefaultHeader...),
		SkipNotebooks: append([]string(nil), DefaultSkipNotebooks...),
		ExcludeDirs:   append([]string(nil), DefaultExcludeDirs...),
	}
}

// IsNotebookFile returns true if the file is a notebook.
func IsNotebookFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ipynb")
}

// isPrivate reports names starting with an underscore, which are never linted.
func isPrivate(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "_")
}
