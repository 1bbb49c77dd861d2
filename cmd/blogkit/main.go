package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogkit/cmd/blogkit/commands"
	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Bind(global),
		kong.Name("blogkit"),
		kong.Description("Build and preview the blog."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
