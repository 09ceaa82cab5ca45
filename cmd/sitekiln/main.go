package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitekiln/cmd/sitekiln/commands"
	ferrors "git.home.luguber.info/inful/sitekiln/internal/foundation/errors"
	"git.home.luguber.info/inful/sitekiln/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("sitekiln"),
		kong.Description("Compile static sites and serve them with live reload."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	err := parser.Run(cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
