package commands

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/bookctl/internal/config"
	"git.home.luguber.info/inful/bookctl/internal/discovery"
	"git.home.luguber.info/inful/bookctl/internal/errors"
	"git.home.luguber.info/inful/bookctl/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Path    string `arg:"" optional:"" help:"Notebook or directory to lint (default: the book directory)"`
	Format  string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet   bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Fix     bool   `help:"Clear stored outputs in place"`
	DryRun  bool   `help:"Show what would be fixed without applying changes (requires --fix)"`
	Changed bool   `help:"Only lint notebooks git reports as changed"`
}

func (l *LintCmd) Run(g *Global, root *CLI) error {
	if l.DryRun && !l.Fix {
		return errors.ValidationFailed("dry-run", "--dry-run requires --fix flag")
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	path := firstNonEmpty(l.Path, cfg.Book.Dir)
	info, err := os.Stat(path)
	if err != nil {
		return errors.PathNotFound(path)
	}

	linter := lint.NewLinter(l.lintConfig(cfg))

	var files []string
	if l.Changed {
		if !info.IsDir() {
			return errors.ValidationFailed("changed", "--changed requires a directory")
		}
		rel, err := discovery.Discover(path, notebookPatterns, cfg.Lint.Exclude)
		if err != nil {
			return err
		}
		if rel, err = changedOnly(path, rel); err != nil {
			return err
		}
		files = joinAll(path, rel)
	}

	if l.Fix {
		return runFixer(g.stdout(), lint.NewFixer(linter, l.DryRun), path, files, l.Changed)
	}

	var result *lint.Result
	if l.Changed {
		result, err = linter.LintFiles(files)
	} else {
		result, err = linter.LintPath(path)
	}
	if err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	if err := lint.NewFormatter(l.Format).Format(g.stdout(), result, path); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	if result.HasErrors() {
		return errors.LintIssues(result.ErrorCount())
	}
	return nil
}

func (l *LintCmd) lintConfig(cfg *config.Config) *lint.Config {
	return &lint.Config{
		Quiet:         l.Quiet,
		Format:        l.Format,
		Fix:           l.Fix,
		DryRun:        l.DryRun,
		Header:        cfg.Lint.Header,
		SkipNotebooks: cfg.Lint.SkipNotebooks,
		ExcludeDirs:   cfg.Lint.Exclude,
	}
}

// runFixer executes the fixer and displays results.
func runFixer(w io.Writer, fixer *lint.Fixer, path string, files []string, useFiles bool) error {
	var (
		fixResult *lint.FixResult
		err       error
	)
	if useFiles {
		fixResult, err = fixer.FixFiles(files)
	} else {
		fixResult, err = fixer.Fix(path)
	}
	if err != nil {
		return fmt.Errorf("fixing failed: %w", err)
	}

	if fixResult.DryRun {
		_, _ = fmt.Fprintf(w, "DRY RUN: No changes will be applied\n\n")
	}
	_, _ = fmt.Fprint(w, fixResult.Summary())

	if fixResult.HasErrors() {
		return errors.FileSystemError("clear outputs", stderrors.Join(fixResult.Errors...))
	}
	return nil
}
