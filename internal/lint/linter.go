package lint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bookctl/internal/discovery"
	"git.home.luguber.info/inful/bookctl/internal/metrics"
	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

// Linter performs linting operations on notebooks.
type Linter struct {
	cfg      *Config
	rules    []Rule
	recorder metrics.Recorder
}

// NewLinter creates a new linter with the given configuration.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	header := cfg.Header
	if len(header) == 0 {
		header = DefaultHeader
	}

	return &Linter{
		cfg: cfg,
		rules: []Rule{
			&NoStoredOutputRule{},
			&InstallHeaderRule{Header: header, Skip: cfg.SkipNotebooks},
		},
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder attaches a metrics recorder counting issues per rule.
func (l *Linter) WithRecorder(rec metrics.Recorder) *Linter {
	if rec != nil {
		l.recorder = rec
	}
	return l
}

// LintPath lints a single notebook, or every notebook below a directory.
func (l *Linter) LintPath(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return l.LintFiles([]string{path})
	}

	rel, err := discovery.Discover(path, []string{"*.ipynb"}, l.cfg.ExcludeDirs)
	if err != nil {
		return nil, fmt.Errorf("discover notebooks: %w", err)
	}
	files := make([]string, 0, len(rel))
	for _, r := range rel {
		files = append(files, filepath.Join(path, filepath.FromSlash(r)))
	}
	return l.LintFiles(files)
}

// LintFiles lints a specific list of files (useful for Git hooks). Files that
// are not notebooks, start with an underscore or no longer exist are skipped.
func (l *Linter) LintFiles(files []string) (*Result, error) {
	result := &Result{Issues: []Issue{}}

	for _, file := range files {
		if !IsNotebookFile(file) || isPrivate(file) {
			continue
		}
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}

		result.FilesTotal++
		if err := l.lintFile(file, result); err != nil {
			return result, err
		}
	}

	l.record(result)
	return result, nil
}

// lintFile applies all applicable rules to a single notebook.
func (l *Linter) lintFile(filePath string, result *Result) error {
	nb, err := notebook.Load(filePath)
	if err != nil {
		if !errors.Is(err, notebook.ErrMalformed) {
			return err
		}
		result.Issues = append(result.Issues, malformedIssue(filePath, err))
		return nil
	}

	for _, rule := range l.rules {
		if !rule.AppliesTo(filePath) {
			continue
		}
		for _, issue := range rule.Check(filePath, nb) {
			// Skip info and warnings in quiet mode
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}
	return nil
}

func (l *Linter) record(result *Result) {
	type key struct{ rule, severity string }
	counts := map[key]int{}
	for _, issue := range result.Issues {
		counts[key{issue.Rule, strings.ToLower(issue.Severity.String())}]++
	}
	for k, n := range counts {
		l.recorder.IncLintIssues(k.rule, k.severity, n)
	}
}
