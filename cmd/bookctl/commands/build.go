package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/bookctl/internal/book"
	"git.home.luguber.info/inful/bookctl/internal/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Book        string `short:"b" help:"Book directory (default openmdao_book)"`
	Clean       bool   `help:"Run jupyter-book clean before building"`
	MetricsFile string `help:"Write Prometheus stage timings to this textfile"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	dir := firstNonEmpty(b.Book, cfg.Book.Dir)
	sink := newMetricsSink(firstNonEmpty(b.MetricsFile, cfg.Metrics.Textfile))
	defer sink.flush()

	builder := book.NewBuilder(cfg.Build.Command).WithRecorder(sink.recorder)
	builder.ArtifactPatterns = cfg.Build.Artifacts
	builder.Stdout = g.stdout()
	builder.Stderr = g.stderr()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	copied, err := builder.Build(ctx, dir, b.Clean || cfg.Build.Clean)
	if err != nil {
		if stderrors.Is(err, book.ErrBookDirNotFound) {
			return errors.PathNotFound(dir)
		}
		return errors.BuildFailed("build", err).WithContext("book", dir)
	}
	_, _ = fmt.Fprintf(g.stdout(), "Copied %d artifact%s into %s\n", len(copied), pluralize(len(copied)), filepath.Join(dir, book.OutputDir))
	return nil
}
