package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bookctl/internal/lint"
	"git.home.luguber.info/inful/bookctl/internal/logfields"
	"git.home.luguber.info/inful/bookctl/internal/metrics"
	"git.home.luguber.info/inful/bookctl/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Book        string        `short:"b" help:"Book directory (default openmdao_book)"`
	Debounce    time.Duration `help:"Quiet period before changed notebooks are linted (default 500ms)"`
	MetricsAddr string        `help:"Serve Prometheus metrics on this address, e.g. :9464"`
}

func (wc *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	dir := firstNonEmpty(wc.Book, cfg.Book.Dir)
	debounce := wc.Debounce
	if debounce == 0 {
		debounce = cfg.Watch.DebounceDuration()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	linter := lint.NewLinter(&lint.Config{
		Format:        "text",
		Header:        cfg.Lint.Header,
		SkipNotebooks: cfg.Lint.SkipNotebooks,
		ExcludeDirs:   cfg.Lint.Exclude,
	})

	if addr := firstNonEmpty(wc.MetricsAddr, cfg.Metrics.Listen); addr != "" {
		reg := prom.NewRegistry()
		linter.WithRecorder(metrics.NewPrometheusRecorder(reg))
		shutdown := serveMetrics(addr, reg)
		defer shutdown()
	}

	w, err := watch.New(dir, watch.Options{
		Patterns: notebookPatterns,
		Exclude:  cfg.Lint.Exclude,
		Debounce: debounce,
	}, relintHandler(g, linter))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// relintHandler lints each batch of changed notebooks and prints the result.
func relintHandler(g *Global, linter *lint.Linter) watch.Handler {
	formatter := lint.NewTextFormatter()
	return func(_ context.Context, changed []string) {
		result, err := linter.LintFiles(changed)
		if err != nil {
			slog.Error("Lint failed", logfields.Count(len(changed)), logfields.Error(err))
			return
		}
		if err := formatter.Format(g.stdout(), result, fmt.Sprintf("%d changed notebook%s", len(changed), pluralize(len(changed)))); err != nil {
			slog.Error("Failed to print lint result", logfields.Error(err))
		}
	}
}

func serveMetrics(addr string, reg *prom.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("Metrics server shutdown", logfields.Error(err))
		}
	}
}
