package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"text/tabwriter"

	"git.home.luguber.info/inful/bookctl/internal/discovery"
	"git.home.luguber.info/inful/bookctl/internal/errors"
	"git.home.luguber.info/inful/bookctl/internal/logfields"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Book     string   `short:"b" help:"Book directory (default from config: openmdao_book)"`
	Patterns []string `short:"p" name:"pattern" help:"File name glob to include (repeatable; default *.ipynb and *.md)"`
	Long     bool     `short:"l" help:"Show the title of each file"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	book := firstNonEmpty(d.Book, cfg.Book.Dir)
	patterns := d.Patterns
	if len(patterns) == 0 {
		patterns = cfg.Book.Patterns
	}

	files, err := discovery.Discover(book, patterns, cfg.Book.Exclude)
	if err != nil {
		return errors.ValidationFailed("pattern", err.Error())
	}
	g.logger().Debug("Discovery completed", logfields.Path(book), logfields.Count(len(files)))

	out := g.stdout()
	if !d.Long {
		for _, f := range files {
			_, _ = fmt.Fprintln(out, f)
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 4, ' ', 0)
	for _, f := range files {
		title, err := discovery.Title(filepath.Join(book, filepath.FromSlash(f)))
		if err != nil {
			slog.Warn("Failed to read title", logfields.File(f), logfields.Error(err))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", f, title)
	}
	return tw.Flush()
}
