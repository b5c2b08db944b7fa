package aggregate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pikatsuto/raspberry-builds/internal/config"
	"github.com/Pikatsuto/raspberry-builds/internal/foundation/errors"
	"github.com/Pikatsuto/raspberry-builds/internal/links"
	"github.com/Pikatsuto/raspberry-builds/internal/locate"
	"github.com/Pikatsuto/raspberry-builds/internal/logfields"
	"github.com/Pikatsuto/raspberry-builds/internal/metrics"
	"github.com/Pikatsuto/raspberry-builds/internal/workspace"
)

// Pipeline aggregates the sources of one repository into its output tree.
// Runs on the same Pipeline are serialized.
type Pipeline struct {
	cfg        *config.Config
	src        locate.Sources
	workspace  *workspace.Manager
	normalizer *links.Normalizer
	steps      []Step
	transforms []Transform
	recorder   metrics.Recorder
	logger     *slog.Logger
	now        func() time.Time

	mu sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder sets the metrics recorder. The default records nothing.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSteps replaces the default wiki, readme and image steps.
func WithSteps(steps ...Step) Option {
	return func(p *Pipeline) { p.steps = steps }
}

// New builds a pipeline for cfg over the resolved sources src.
func New(cfg *config.Config, src locate.Sources, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		src:        src,
		workspace:  workspace.NewManager(cfg.OutputDirs(src.RepoRoot)...),
		normalizer: links.New(links.OptionsFromConfig(cfg, src.Upstream)),
		steps:      DefaultSteps(),
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.transforms = transformChain(p.normalizer, cfg.Layout.Fingerprint)
	return p
}

// Report summarizes a completed run.
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Steps    []StepReport
}

// Processed returns the number of pages written across all steps.
func (r Report) Processed() int {
	n := 0
	for _, s := range r.Steps {
		n += s.Processed
	}
	return n
}

// Skipped returns the number of items skipped across all steps.
func (r Report) Skipped() int {
	n := 0
	for _, s := range r.Steps {
		n += s.Skipped
	}
	return n
}

// Run resets the output directories and executes every step in order. Per-item
// failures are logged and skipped; a step that cannot list its sources, a write
// failure or a cancelled ctx ends the run with a classified error.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	report := &Report{RunID: uuid.NewString(), Started: p.now()}
	logger := p.logger.With(logfields.RunID(report.RunID))
	logger.Info("Aggregation started", logfields.Path(p.src.RepoRoot))

	err := p.run(ctx, logger, report)
	report.Duration = p.now().Sub(report.Started)

	p.recorder.ObserveRunDuration(report.Duration)
	if err != nil {
		p.recorder.IncRunOutcome(metrics.OutcomeFailed)
		return report, err
	}
	p.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	p.recorder.SetLastRun(report.Started)

	logger.Info("Aggregation completed",
		logfields.Processed(report.Processed()),
		logfields.Skipped(report.Skipped()),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, report *Report) error {
	if err := p.cfg.CheckOutputIsolation(p.src.RepoRoot); err != nil {
		return err
	}
	if err := p.workspace.Reset(); err != nil {
		return err
	}

	written := make(map[string]string)
	for _, step := range p.steps {
		sr, err := p.runStep(ctx, logger, step, written)
		report.Steps = append(report.Steps, sr)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runStep(ctx context.Context, logger *slog.Logger, step Step, written map[string]string) (sr StepReport, err error) {
	start := p.now()
	sr.Name = step.Name()
	logger = logger.With(logfields.Step(step.Name()))
	defer func() {
		sr.Duration = p.now().Sub(start)
		p.recorder.ObserveStepDuration(sr.Name, sr.Duration)
	}()

	items, listErr := step.Items(ctx, p)
	if listErr != nil {
		return sr, errors.WrapError(listErr, errors.CategoryBuild, "failed to list sources").
			WithContext("step", step.Name()).
			Build()
	}

	for _, item := range items {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sr, errors.WrapError(ctxErr, errors.CategoryRuntime, "aggregation cancelled").
				WithContext("step", step.Name()).
				Build()
		}

		if prev, dup := written[item.Output]; dup {
			logger.Warn("Skipping source with conflicting output",
				logfields.Path(item.Source), logfields.Output(item.Output), slog.String("kept", prev))
			sr.Skipped++
			p.recorder.IncItemResult(sr.Name, metrics.ResultSkipped)
			continue
		}

		doc, procErr := p.process(item)
		if procErr != nil {
			logger.Warn("Skipping source", logfields.Path(item.Source), logfields.Error(procErr))
			sr.Skipped++
			p.recorder.IncItemResult(sr.Name, metrics.ResultSkipped)
			continue
		}

		if writeErr := p.workspace.WriteFile(doc.Output, doc.Raw); writeErr != nil {
			return sr, errors.WrapError(writeErr, errors.CategoryFileSystem, "failed to write page").
				WithContext("step", step.Name()).
				WithContext("output", doc.Output).
				Build()
		}
		written[item.Output] = item.Source
		sr.Processed++
		p.recorder.IncItemResult(sr.Name, metrics.ResultProcessed)
		logger.Debug("Wrote page", logfields.File(item.Name), logfields.Output(doc.Output))
	}

	logger.Info("Step completed", logfields.Processed(sr.Processed), logfields.Skipped(sr.Skipped))
	return sr, nil
}

func (p *Pipeline) process(item Item) (*Document, error) {
	doc, err := item.load()
	if err != nil {
		return nil, err
	}
	if err := applyTransforms(doc, p.transforms); err != nil {
		return nil, err
	}
	return doc, nil
}

// PlannedItem is one source and the page a run would write for it.
type PlannedItem struct {
	Step   string
	Name   string
	Source string
	Output string
}

// Plan lists what Run would write, without touching the file system.
func (p *Pipeline) Plan(ctx context.Context) ([]PlannedItem, error) {
	if err := p.cfg.CheckOutputIsolation(p.src.RepoRoot); err != nil {
		return nil, err
	}
	var plan []PlannedItem
	for _, step := range p.steps {
		items, err := step.Items(ctx, p)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryBuild, "failed to list sources").
				WithContext("step", step.Name()).
				Build()
		}
		for _, it := range items {
			plan = append(plan, PlannedItem{Step: step.Name(), Name: it.Name, Source: it.Source, Output: it.Output})
		}
	}
	return plan, nil
}

// OutputDirs returns the directories a run resets.
func (p *Pipeline) OutputDirs() []string {
	return p.workspace.Dirs()
}
