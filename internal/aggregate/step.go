package aggregate

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Pikatsuto/raspberry-builds/internal/config"
)

// Step names, also used as log and metric labels.
const (
	StepWiki    = "wiki"
	StepReadmes = "readmes"
	StepImages  = "images"
)

// Item is one unit of work of a step: a source and the page it produces.
type Item struct {
	// Name identifies the item in logs (file name, readme path, image name).
	Name   string
	Source string
	Output string

	load func() (*Document, error)
}

// Step lists the work of one processing stage.
type Step interface {
	Name() string
	// Items lists the step's work without reading file contents. A missing
	// source directory yields no items; any other listing failure is returned.
	Items(ctx context.Context, p *Pipeline) ([]Item, error)
}

// StepReport summarizes one step of a run.
type StepReport struct {
	Name      string
	Processed int
	Skipped   int
	Duration  time.Duration
}

// DefaultSteps returns the wiki, readme and image steps in run order.
func DefaultSteps() []Step {
	return []Step{wikiStep{}, readmeStep{}, imageStep{}}
}

// outputPath joins a file name to a section directory, applying the layout's
// file name casing.
func outputPath(cfg *config.Config, root string, section config.Section, name string) string {
	if cfg.Layout.LowercaseNames() {
		name = cases.Lower(language.Und).String(name)
	}
	return filepath.Join(cfg.SectionPath(root, section), name)
}
