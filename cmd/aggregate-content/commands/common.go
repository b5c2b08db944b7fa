// Package commands implements the aggregate-content sub-commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/Pikatsuto/raspberry-builds/internal/aggregate"
	"github.com/Pikatsuto/raspberry-builds/internal/config"
	"github.com/Pikatsuto/raspberry-builds/internal/locate"
)

// logLevelEnv overrides the log level when -v is not given.
const logLevelEnv = "AGGREGATE_LOG_LEVEL"

// Global carries state shared by every sub-command.
type Global struct {
	Logger *slog.Logger
	// Stdout receives the human-readable summary lines.
	Stdout io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"aggregate.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" default:"1" help:"Aggregate sources into the content tree (default)"`
	Plan  PlanCmd  `cmd:"" help:"Print where every source would be written, without writing"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild whenever sources change"`
	Serve ServeCmd `cmd:"" help:"Serve the built site with its production security headers"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	g.Logger = logger
	if g.Stdout == nil {
		g.Stdout = os.Stdout
	}
	return nil
}

// parseLogLevel returns debug for -v, otherwise the level named by
// AGGREGATE_LOG_LEVEL, defaulting to info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if v := strings.TrimSpace(os.Getenv(logLevelEnv)); v != "" {
		if err := level.UnmarshalText([]byte(v)); err == nil {
			return level
		}
	}
	return slog.LevelInfo
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadSources loads the configuration and resolves the repository it applies
// to. The configuration file's directory anchors relative paths.
func loadSources(root *CLI, overrides ...config.Override) (*config.Config, locate.Sources, error) {
	cfg, err := config.Load(root.Config, overrides...)
	if err != nil {
		return nil, locate.Sources{}, err
	}
	src, err := locate.Resolve(cfg, filepath.Dir(root.Config))
	if err != nil {
		return nil, locate.Sources{}, err
	}
	return cfg, src, nil
}

var stepTitles = map[string]string{
	aggregate.StepWiki:    "Wiki pages",
	aggregate.StepReadmes: "Readmes",
	aggregate.StepImages:  "Image configurations",
}

// printReport writes the per-step summary of a run.
func printReport(w io.Writer, r *aggregate.Report) {
	for _, s := range r.Steps {
		title := stepTitles[s.Name]
		if title == "" {
			title = s.Name
		}
		_, _ = fmt.Fprintf(w, "%s: %d processed, %d skipped\n", title, s.Processed, s.Skipped)
	}
	_, _ = fmt.Fprintf(w, "Aggregated %d pages in %s\n", r.Processed(), r.Duration.Round(time.Millisecond))
}
