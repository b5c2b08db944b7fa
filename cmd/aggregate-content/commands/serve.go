package commands

import (
	"context"
	"path/filepath"

	"github.com/Pikatsuto/raspberry-builds/internal/aggregate"
	"github.com/Pikatsuto/raspberry-builds/internal/metrics"
	"github.com/Pikatsuto/raspberry-builds/internal/server"
	"github.com/Pikatsuto/raspberry-builds/internal/watch"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Dir   string `help:"Built site directory, relative to the repository root" default:"dist"`
	Addr  string `help:"Listen address" default:":8080"`
	Watch bool   `help:"Also aggregate sources and rebuild them on change"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, src, err := loadSources(root)
	if err != nil {
		return err
	}

	dir := s.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(src.RepoRoot, dir)
	}

	recorder := metrics.NewPrometheusRecorder(nil)
	handler := server.NewHandler(server.Options{
		Dir:      dir,
		BasePath: cfg.Layout.BasePath,
		Metrics:  recorder.HTTPHandler(),
		Logger:   g.Logger,
	})

	ctx, cancel := signalContext()
	defer cancel()

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- server.New(s.Addr, handler, g.Logger).Run(ctx) }()
	if s.Watch {
		running++
		p := aggregate.New(cfg, src, aggregate.WithLogger(g.Logger), aggregate.WithRecorder(recorder))
		go func() {
			errCh <- watch.New(reportingBuilder{p: p, g: g}, watch.OptionsFor(cfg, src), g.Logger).Run(ctx)
		}()
	}

	// The first failure stops the other task.
	var first error
	for range running {
		if err := <-errCh; err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

// reportingBuilder prints the summary of every successful run.
type reportingBuilder struct {
	p *aggregate.Pipeline
	g *Global
}

func (b reportingBuilder) Run(ctx context.Context) (*aggregate.Report, error) {
	report, err := b.p.Run(ctx)
	if err == nil {
		printReport(b.g.Stdout, report)
	}
	return report, err
}
