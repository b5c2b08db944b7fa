package commands

import (
	"fmt"

	"github.com/Pikatsuto/raspberry-builds/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Preset string `help:"Layout preset (starlight|nuxt)" default:"starlight"`
	Force  bool   `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	_, _ = fmt.Fprintf(g.Stdout, "Writing configuration to %s\n", root.Config)
	preset := config.NormalizePreset(i.Preset)
	if preset == "" {
		preset = config.Preset(i.Preset)
	}
	if err := config.Init(root.Config, preset, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Stdout, "Initialized successfully")
	return nil
}
