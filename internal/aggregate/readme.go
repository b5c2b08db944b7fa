package aggregate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// readmeStep publishes the configured top-level documents.
type readmeStep struct{}

func (readmeStep) Name() string { return StepReadmes }

func (readmeStep) Items(_ context.Context, p *Pipeline) ([]Item, error) {
	layout := p.cfg.Layout
	category := ""
	if layout.CategoryEnabled() {
		category = layout.Readmes.Label
	}

	items := make([]Item, 0, len(p.cfg.Sources.Readmes))
	for _, r := range p.cfg.Sources.Readmes {
		source := p.cfg.ReadmePath(p.src.RepoRoot, r)
		output := outputPath(p.cfg, p.src.RepoRoot, layout.Readmes, readmeOutputName(r.Path))
		title := r.Title
		description := "Documentation from " + filepath.ToSlash(r.Path)
		items = append(items, Item{
			Name:   r.Path,
			Source: source,
			Output: output,
			load: func() (*Document, error) {
				data, err := os.ReadFile(source)
				if err != nil {
					return nil, err
				}
				return &Document{
					Source:      source,
					Output:      output,
					Title:       title,
					Description: description,
					Category:    category,
					Content:     string(data),
				}, nil
			},
		})
	}
	return items, nil
}

// readmeOutputName flattens a readme path into a file name prefixed with its
// parent directory: ".github/README.md" becomes "github-README.md", "README.md"
// stays as is.
func readmeOutputName(path string) string {
	path = filepath.Clean(filepath.FromSlash(path))
	base := filepath.Base(path)
	dir := filepath.Dir(path)
	if dir == "." {
		return base
	}
	prefix := strings.TrimLeft(filepath.Base(dir), ".")
	if prefix == "" {
		return base
	}
	return prefix + "-" + base
}
