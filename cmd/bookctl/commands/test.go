package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bookctl/internal/config"
	"git.home.luguber.info/inful/bookctl/internal/discovery"
	"git.home.luguber.info/inful/bookctl/internal/errors"
	"git.home.luguber.info/inful/bookctl/internal/gitscope"
	"git.home.luguber.info/inful/bookctl/internal/logfields"
	"git.home.luguber.info/inful/bookctl/internal/report"
	"git.home.luguber.info/inful/bookctl/internal/runner"
	"git.home.luguber.info/inful/bookctl/internal/util/sets"
)

var notebookPatterns = []string{"*.ipynb"}

// TestCmd implements the 'test' command.
type TestCmd struct {
	Files       []string `arg:"" optional:"" help:"Notebook files or globs to run, e.g. 'my_dir/*.ipynb' (default: every notebook in the book)"`
	Timeout     *int     `short:"t" help:"Seconds a cell can run before raising TimeoutError (default 600)"`
	RunPath     string   `short:"p" help:"Directory the notebooks are run from (default .)"`
	Book        string   `short:"b" help:"Book directory searched when no files are given (default openmdao_book)"`
	Kernel      string   `help:"Kernel name (default python3)"`
	NotebookDir bool     `help:"Run each notebook from its own directory"`
	Changed     bool     `help:"Only run notebooks git reports as changed"`
	Format      string   `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Traceback   bool     `help:"Print the captured traceback of every failure"`
	MetricsFile string   `help:"Write Prometheus metrics for the run to this textfile"`
}

func (t *TestCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	opts := t.options(cfg)
	if err := opts.Validate(); err != nil {
		return err
	}

	paths, err := t.collect(cfg)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := g.logger().With(logfields.RunID(runID))
	logger.Info("Starting notebook run",
		logfields.Count(len(paths)),
		logfields.Kernel(opts.Kernel),
		logfields.Timeout(opts.Timeout.String()))

	sink := newMetricsSink(firstNonEmpty(t.MetricsFile, cfg.Metrics.Textfile))
	executor := runner.NewKernelExecutor(cfg.Run.Engine)
	executor.StartupGrace = cfg.Run.StartupGraceDuration()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := runner.New(executor, opts).
		WithRecorder(sink.recorder).
		WithLogger(logger).
		Run(ctx, paths)
	sink.flush()

	summary := report.Summarize(results)
	summary.RunID = runID

	out := g.stdout()
	formatter := report.NewFormatter(t.Format, isColorSupported(out), t.Traceback)
	if err := formatter.Format(out, summary); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if ctx.Err() != nil {
		return errors.New(errors.CategoryExecution, errors.SeverityError, "run interrupted").
			WithContext("completed", len(results)).
			WithContext("total", len(paths))
	}
	if !summary.OK() {
		return errors.NotebooksFailed(len(summary.Failures), summary.Total)
	}
	return nil
}

// options merges flags over the configuration.
func (t *TestCmd) options(cfg *config.Config) runner.Options {
	opts := runner.Options{
		Timeout:         cfg.Run.TimeoutDuration(),
		RunPath:         firstNonEmpty(t.RunPath, cfg.Run.RunPath),
		Kernel:          firstNonEmpty(t.Kernel, cfg.Run.Kernel),
		FromNotebookDir: t.NotebookDir || cfg.Run.NotebookDir,
	}
	if t.Timeout != nil {
		opts.Timeout = time.Duration(*t.Timeout) * time.Second
	}
	return opts
}

// collect returns the notebooks to run: the expanded positional arguments,
// or every notebook of the book.
func (t *TestCmd) collect(cfg *config.Config) ([]string, error) {
	if len(t.Files) > 0 {
		return t.expandFiles()
	}

	book := firstNonEmpty(t.Book, cfg.Book.Dir)
	rel, err := discovery.Discover(book, notebookPatterns, cfg.Book.Exclude)
	if err != nil {
		return nil, err
	}
	if len(rel) == 0 {
		slog.Warn("No notebooks found", logfields.Path(book))
	}
	if t.Changed {
		if rel, err = changedOnly(book, rel); err != nil {
			return nil, err
		}
	}
	return joinAll(book, rel), nil
}

func (t *TestCmd) expandFiles() ([]string, error) {
	seen := sets.New[string]()
	var paths []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen.Has(p) {
			seen.Add(p)
			paths = append(paths, p)
		}
	}

	for _, arg := range t.Files {
		if !hasGlobMeta(arg) {
			add(arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, errors.ValidationFailed("files", fmt.Sprintf("invalid pattern %q", arg))
		}
		for _, m := range matches {
			add(m)
		}
	}

	if !t.Changed {
		return paths, nil
	}
	kept, err := gitscope.KeepChanged(paths)
	if err != nil {
		return nil, err
	}
	slog.Info("Restricted to changed files", logfields.Count(len(kept)))
	return kept, nil
}
