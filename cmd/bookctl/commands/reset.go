package commands

import (
	stderrors "errors"
	"fmt"

	"git.home.luguber.info/inful/bookctl/internal/errors"
	"git.home.luguber.info/inful/bookctl/internal/logfields"
	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

// ResetCmd implements the 'reset' command.
type ResetCmd struct {
	Notebooks []string `arg:"" help:"Notebooks to reset; the .ipynb extension may be omitted"`
}

func (r *ResetCmd) Run(g *Global, _ *CLI) error {
	for _, name := range r.Notebooks {
		path, cleared, err := notebook.Reset(name)
		if err != nil {
			if stderrors.Is(err, notebook.ErrNotAFile) {
				return errors.PathNotFound(path)
			}
			return errors.NotebookInvalid(path, err)
		}
		g.logger().Debug("Notebook reset", logfields.Notebook(path), logfields.Count(cleared))
		_, _ = fmt.Fprintf(g.stdout(), "Reset %s (%d cell%s cleared)\n", path, cleared, pluralize(cleared))
	}
	return nil
}
