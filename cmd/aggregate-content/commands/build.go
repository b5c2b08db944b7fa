package commands

import (
	"fmt"

	"github.com/Pikatsuto/raspberry-builds/internal/aggregate"
	"github.com/Pikatsuto/raspberry-builds/internal/config"
	"github.com/Pikatsuto/raspberry-builds/internal/foundation/errors"
	"github.com/Pikatsuto/raspberry-builds/internal/logfields"
	"github.com/Pikatsuto/raspberry-builds/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Preset      string `help:"Layout preset (starlight|nuxt); overrides layout.preset"`
	OutputRoot  string `name:"output-root" help:"Output root; overrides layout.output_root"`
	MetricsFile string `name:"metrics-file" help:"Write run metrics in Prometheus textfile format"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, src, err := loadSources(root, config.WithPreset(b.Preset), config.WithOutputRoot(b.OutputRoot))
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if b.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	ctx, cancel := signalContext()
	defer cancel()

	_, _ = fmt.Fprintf(g.Stdout, "Aggregating content for %s (%s layout)\n", src.RepoRoot, cfg.Layout.Preset)
	p := aggregate.New(cfg, src, aggregate.WithLogger(g.Logger), aggregate.WithRecorder(recorder))
	report, runErr := p.Run(ctx)

	if prom != nil {
		if err := prom.WriteTextfile(b.MetricsFile); err != nil {
			if runErr != nil {
				g.Logger.Warn("Failed to write metrics file", logfields.Path(b.MetricsFile), logfields.Error(err))
			} else {
				return errors.WrapError(err, errors.CategoryFileSystem, "failed to write metrics file").
					WithContext("path", b.MetricsFile).
					Build()
			}
		}
	}
	if runErr != nil {
		return runErr
	}

	printReport(g.Stdout, report)
	return nil
}
