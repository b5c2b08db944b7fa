package aggregate

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Pikatsuto/raspberry-builds/internal/frontmatter"
	"github.com/Pikatsuto/raspberry-builds/internal/logfields"
)

// Files and marker directories inside an image directory.
const (
	imageReadme     = "README.md"
	imageConfig     = "config.sh"
	imageSetup      = "setup.sh"
	markerCloudInit = "cloudinit"
	markerFirstBoot = "first-boot"
)

// BootMode is how an image performs its initial configuration.
type BootMode string

const (
	BootModeNone      BootMode = ""
	BootModeCloudInit BootMode = "cloud-init"
	BootModeFirstBoot BootMode = "first-boot"
)

var descriptionPattern = regexp.MustCompile(`DESCRIPTION="([^"]+)"`)

// ImageDescriptor holds everything read from one image directory.
type ImageDescriptor struct {
	Name   string
	Readme string // Empty when the image has no README.md
	Config string
	Setup  string // Empty when the image has no setup.sh
	Boot   BootMode
}

// Description returns the DESCRIPTION assigned in config.sh, or a synthesized one.
func (d ImageDescriptor) Description() string {
	if m := descriptionPattern.FindStringSubmatch(d.Config); m != nil {
		return m[1]
	}
	return d.Name + " image configuration"
}

// Markdown renders the image page body.
func (d ImageDescriptor) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Name)
	if d.Readme != "" {
		b.WriteString(d.Readme)
		b.WriteString("\n\n")
	}
	writeCodeSection(&b, "Configuration", d.Config)
	if d.Setup != "" {
		writeCodeSection(&b, "Setup Script", d.Setup)
	}
	switch d.Boot {
	case BootModeCloudInit:
		b.WriteString("## Boot Mode\n\nThis image uses **cloud-init** for initial configuration.\n\n")
	case BootModeFirstBoot:
		b.WriteString("## Boot Mode\n\nThis image uses **first-boot service** for initial configuration.\n\n")
	}
	return b.String()
}

// writeCodeSection writes a bash code block whose fence is longer than any
// backtick run inside code.
func writeCodeSection(b *strings.Builder, heading, code string) {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	fmt.Fprintf(b, "## %s\n\n%sbash\n%s\n%s\n\n", heading, fence, code, fence)
}

// ReadImage loads the image directory dir. config.sh is required; README.md and
// setup.sh are optional. A README's own header is dropped.
func ReadImage(dir string) (ImageDescriptor, error) {
	d := ImageDescriptor{Name: filepath.Base(dir)}

	cfg, err := os.ReadFile(filepath.Join(dir, imageConfig))
	if err != nil {
		return d, err
	}
	d.Config = string(cfg)

	readme, err := readOptional(filepath.Join(dir, imageReadme))
	if err != nil {
		return d, err
	}
	d.Readme = frontmatter.Strip(readme)

	if d.Setup, err = readOptional(filepath.Join(dir, imageSetup)); err != nil {
		return d, err
	}

	switch {
	case exists(filepath.Join(dir, markerCloudInit)):
		d.Boot = BootModeCloudInit
	case exists(filepath.Join(dir, markerFirstBoot)):
		d.Boot = BootModeFirstBoot
	}
	return d, nil
}

func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// imageStep publishes one page per image directory.
type imageStep struct{}

func (imageStep) Name() string { return StepImages }

func (imageStep) Items(_ context.Context, p *Pipeline) ([]Item, error) {
	root := p.src.ImagesDir
	entries, err := os.ReadDir(root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("Images directory not found", logfields.Step(StepImages), logfields.Path(root))
			return nil, nil
		}
		return nil, err
	}

	section := p.cfg.Layout.ImageSources
	category := ""
	if p.cfg.Layout.CategoryEnabled() {
		category = section.Label
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		dir := filepath.Join(root, name)
		// Stat follows symlinked image directories.
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		output := outputPath(p.cfg, p.src.RepoRoot, section.Section, section.Prefix+name+markdownExt)
		items = append(items, Item{
			Name:   name,
			Source: dir,
			Output: output,
			load: func() (*Document, error) {
				img, err := ReadImage(dir)
				if err != nil {
					return nil, err
				}
				return &Document{
					Source:      dir,
					Output:      output,
					Title:       img.Name,
					Description: img.Description(),
					Category:    category,
					Content:     img.Markdown(),
				}, nil
			},
		})
	}
	return items, nil
}
