package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bookctl/cmd/bookctl/commands"
	"git.home.luguber.info/inful/bookctl/internal/errors"
	"git.home.luguber.info/inful/bookctl/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{Stdout: os.Stdout, Stderr: os.Stderr}

	ctx := kong.Parse(&cli,
		kong.Name("bookctl"),
		kong.Description("Test, lint and build a Jupyter-Book documentation tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := ctx.Run(global, &cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
