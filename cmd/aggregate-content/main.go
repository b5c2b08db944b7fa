package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/Pikatsuto/raspberry-builds/cmd/aggregate-content/commands"
	"github.com/Pikatsuto/raspberry-builds/internal/foundation/errors"
	"github.com/Pikatsuto/raspberry-builds/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("aggregate-content"),
		kong.Description("Aggregate wiki pages, readmes and image build scripts into a documentation content tree."),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
		kong.UsageOnError(),
	)

	if err := parser.Run(global, cli); err != nil {
		logger := global.Logger
		if logger == nil {
			logger = slog.Default()
		}
		errors.NewCLIErrorAdapter(cli.Verbose, logger).HandleError(err)
	}
}
