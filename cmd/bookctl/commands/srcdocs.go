package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/bookctl/internal/errors"
	"git.home.luguber.info/inful/bookctl/internal/srcdocs"
)

// SrcdocsCmd implements the 'srcdocs' command.
type SrcdocsCmd struct {
	Book       string   `short:"b" help:"Book directory (default openmdao_book)"`
	SourceRoot string   `short:"s" help:"Directory containing the project package (default .)"`
	Project    string   `help:"Top-level package name (default openmdao)"`
	Packages   []string `name:"package" help:"Dotted package to document (repeatable; default the configured list)"`
}

func (s *SrcdocsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	opts := srcdocs.Options{
		BookDir:    firstNonEmpty(s.Book, cfg.Book.Dir),
		SourceRoot: firstNonEmpty(s.SourceRoot, cfg.SrcDocs.SourceRoot),
		Project:    firstNonEmpty(s.Project, cfg.SrcDocs.Project),
		Packages:   s.Packages,
	}
	if len(opts.Packages) == 0 {
		opts.Packages = cfg.SrcDocs.Packages
	}

	pkgs, err := srcdocs.Generate(opts)
	if err != nil {
		return errors.FileSystemError("generate source docs", err)
	}
	modules := 0
	for _, p := range pkgs {
		modules += len(p.Subpackages)
	}
	_, _ = fmt.Fprintf(g.stdout(), "Generated %d package%s, %d module%s in %s\n",
		len(pkgs), pluralize(len(pkgs)), modules, pluralize(modules),
		filepath.Join(opts.BookDir, srcdocs.DirName))
	return nil
}
