package aggregate

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Pikatsuto/raspberry-builds/internal/links"
	"github.com/Pikatsuto/raspberry-builds/internal/logfields"
)

const markdownExt = ".md"

// wikiStep publishes every wiki page except the excluded navigation files.
// Image- pages go to the image section, everything else to the general one.
type wikiStep struct{}

func (wikiStep) Name() string { return StepWiki }

func (wikiStep) Items(_ context.Context, p *Pipeline) ([]Item, error) {
	dir := p.src.WikiDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("Wiki directory not found", logfields.Step(StepWiki), logfields.Path(dir))
			return nil, nil
		}
		return nil, err
	}

	layout := p.cfg.Layout
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		file := e.Name()
		if e.IsDir() || !strings.HasSuffix(file, markdownExt) || slices.Contains(p.cfg.Wiki.Exclude, file) {
			continue
		}
		stem := strings.TrimSuffix(file, markdownExt)
		title := strings.ReplaceAll(stem, "-", " ")

		section := layout.General
		if links.IsImagePage(stem) {
			section = layout.Image
		}
		category := ""
		if layout.CategoryEnabled() {
			category = section.Label
		}

		source := filepath.Join(dir, file)
		output := outputPath(p.cfg, p.src.RepoRoot, section, file)
		items = append(items, Item{
			Name:   file,
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
					Description: "Wiki: " + title,
					Category:    category,
					Content:     string(data),
				}, nil
			},
		})
	}
	return items, nil
}
