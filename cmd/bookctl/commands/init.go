package commands

import (
	"fmt"

	"git.home.luguber.info/inful/bookctl/internal/config"
	"git.home.luguber.info/inful/bookctl/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	g.logger().Info("Initializing configuration", logfields.Path(root.Config))
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.stdout(), "Wrote %s\n", root.Config)
	return nil
}
