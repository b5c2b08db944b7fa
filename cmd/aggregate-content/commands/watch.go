package commands

import (
	"time"

	"github.com/Pikatsuto/raspberry-builds/internal/aggregate"
	"github.com/Pikatsuto/raspberry-builds/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Interval time.Duration `help:"Also rebuild periodically (e.g. 5m); 0 disables"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, src, err := loadSources(root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts := watch.OptionsFor(cfg, src)
	opts.Interval = w.Interval
	p := aggregate.New(cfg, src, aggregate.WithLogger(g.Logger))
	return watch.New(reportingBuilder{p: p, g: g}, opts, g.Logger).Run(ctx)
}
