package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bookctl/internal/config"
	"git.home.luguber.info/inful/bookctl/internal/gitscope"
	"git.home.luguber.info/inful/bookctl/internal/logfields"
	"git.home.luguber.info/inful/bookctl/internal/metrics"
	"git.home.luguber.info/inful/bookctl/internal/util/sets"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults apply when missing)" default:"bookctl.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Discover DiscoverCmd `cmd:"" help:"List the notebooks and pages of the book"`
	Test     TestCmd     `cmd:"" help:"Execute notebooks and report failures"`
	Lint     LintCmd     `cmd:"" help:"Check notebooks for stored output and the install header"`
	Reset    ResetCmd    `cmd:"" help:"Clear execution counts and outputs of notebooks"`
	Build    BuildCmd    `cmd:"" help:"Build the book with jupyter-book and copy static artifacts"`
	Srcdocs  SrcdocsCmd  `cmd:"" help:"Generate the source reference stubs of the book"`
	Watch    WatchCmd    `cmd:"" help:"Re-lint notebooks as they change"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(g.stderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(c.Config)
}

// firstNonEmpty returns the flag value when set, otherwise the configured one.
func firstNonEmpty(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

// isColorSupported checks if w is a terminal that accepts color output.
func isColorSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if fileInfo, err := f.Stat(); err != nil || (fileInfo.Mode()&os.ModeCharDevice) == 0 {
		return false
	}

	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}

// changedOnly keeps the paths (slash-separated, relative to root) that git
// reports as changed below root.
func changedOnly(root string, rel []string) ([]string, error) {
	changed, err := gitscope.ChangedFiles(root)
	if err != nil {
		return nil, err
	}
	kept := sets.Filter(rel, changed)
	slog.Info("Restricted to changed files", logfields.Path(root), logfields.Count(len(kept)))
	return kept, nil
}

// joinAll turns slash-separated paths relative to root into file paths.
func joinAll(root string, rel []string) []string {
	out := make([]string, len(rel))
	for i, r := range rel {
		out[i] = filepath.Join(root, filepath.FromSlash(r))
	}
	return out
}

// metricsSink records into a private registry when a textfile is requested.
type metricsSink struct {
	path     string
	registry *prom.Registry
	recorder metrics.Recorder
}

func newMetricsSink(path string) *metricsSink {
	s := &metricsSink{path: path, recorder: metrics.NoopRecorder{}}
	if path != "" {
		s.registry = prom.NewRegistry()
		s.recorder = metrics.NewPrometheusRecorder(s.registry)
	}
	return s
}

// flush writes the textfile; failures are logged, never fatal.
func (s *metricsSink) flush() {
	if s.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(s.path, s.registry); err != nil {
		slog.Warn("Failed to write metrics", logfields.File(s.path), logfields.Error(err))
		return
	}
	slog.Debug("Metrics written", logfields.File(s.path))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// hasGlobMeta reports whether p contains glob metacharacters.
func hasGlobMeta(p string) bool {
	return strings.ContainsAny(p, `*?[`)
}
