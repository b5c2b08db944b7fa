package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Pikatsuto/raspberry-builds/internal/aggregate"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct{}

func (p *PlanCmd) Run(g *Global, root *CLI) error {
	cfg, src, err := loadSources(root)
	if err != nil {
		return err
	}

	plan, err := aggregate.New(cfg, src, aggregate.WithLogger(g.Logger)).Plan(context.Background())
	if err != nil {
		return err
	}

	for _, item := range plan {
		_, _ = fmt.Fprintf(g.Stdout, "%-8s %s -> %s\n", item.Step, relTo(src.RepoRoot, item.Source), relTo(src.RepoRoot, item.Output))
	}
	_, _ = fmt.Fprintf(g.Stdout, "%d sources\n", len(plan))
	return nil
}

// relTo shortens path relative to root when it lies below it.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return filepath.ToSlash(rel)
}
