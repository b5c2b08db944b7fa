package config

import (
	"fmt"
	"strings"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SourcesDefaultApplier handles source location defaults.
type SourcesDefaultApplier struct{}

func (s *SourcesDefaultApplier) Domain() string { return "sources" }

func (s *SourcesDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Sources.WikiDir == "" {
		cfg.Sources.WikiDir = "wiki"
	}
	if cfg.Sources.ImagesDir == "" {
		cfg.Sources.ImagesDir = "images"
	}
	// nil means omitted; an explicit empty list disables the readme step.
	if cfg.Sources.Readmes == nil {
		cfg.Sources.Readmes = []Readme{
			{Path: "README.md", Title: "Project Overview"},
			{Path: ".github/README.md", Title: "GitHub Actions Documentation"},
		}
	}
	if cfg.Wiki.Exclude == nil {
		cfg.Wiki.Exclude = []string{"_Sidebar.md"}
	}
	return nil
}

// LayoutDefaultApplier resolves the preset and fills every layout field not set explicitly.
type LayoutDefaultApplier struct{}

func (l *LayoutDefaultApplier) Domain() string { return "layout" }

func (l *LayoutDefaultApplier) ApplyDefaults(cfg *Config) error {
	raw := string(cfg.Layout.Preset)
	if raw == "" {
		raw = string(PresetStarlight)
	}
	p := NormalizePreset(raw)
	if p == "" {
		return fmt.Errorf("unknown layout preset %q (expected one of %v)", raw, Presets())
	}
	preset, err := presetLayout(p)
	if err != nil {
		return err
	}

	lc := &cfg.Layout
	lc.Preset = p
	if lc.OutputRoot == "" {
		lc.OutputRoot = preset.OutputRoot
	}
	if lc.BasePath == "" {
		lc.BasePath = preset.BasePath
	}
	lc.BasePath = strings.TrimRight(lc.BasePath, "/")
	lc.General = mergeSection(lc.General, preset.General)
	lc.Image = mergeSection(lc.Image, preset.Image)
	lc.Readmes = mergeSection(lc.Readmes, preset.Readmes)
	lc.ImageSources.Section = mergeSection(lc.ImageSources.Section, preset.ImageSources.Section)
	if lc.ImageSources.Prefix == "" {
		lc.ImageSources.Prefix = preset.ImageSources.Prefix
	}
	if lc.IncludeCategory == nil {
		lc.IncludeCategory = preset.IncludeCategory
	}
	if lc.LowercaseFilenames == nil {
		lc.LowercaseFilenames = preset.LowercaseFilenames
	}
	return nil
}

// LinksDefaultApplier handles link normalizer defaults. Upstream is left empty for the
// locator to derive from git.
type LinksDefaultApplier struct{}

func (l *LinksDefaultApplier) Domain() string { return "links" }

func (l *LinksDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Links.Upstream = strings.TrimRight(cfg.Links.Upstream, "/")
	if cfg.Links.Branch == "" {
		cfg.Links.Branch = "main"
	}
	if len(cfg.Links.MetaPaths) == 0 {
		cfg.Links.MetaPaths = []string{"issues", "discussions", "actions", "pulls"}
	}
	if cfg.Links.ReleasesRoute == "" {
		cfg.Links.ReleasesRoute = "releases"
	}
	if len(cfg.Links.LicenseFiles) == 0 {
		cfg.Links.LicenseFiles = []string{"LICENSE", "LICENSE.md", "LICENSE.txt"}
	}
	return nil
}

// ConfigDefaultApplier orchestrates all domain-specific default appliers.
type ConfigDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a new default applier with all domain appliers.
func NewDefaultApplier() *ConfigDefaultApplier {
	return &ConfigDefaultApplier{
		appliers: []DefaultApplier{
			&SourcesDefaultApplier{},
			&LayoutDefaultApplier{},
			&LinksDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults using all registered domain appliers.
func (c *ConfigDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("failed to apply %s defaults: %w", applier.Domain(), err)
		}
	}
	return nil
}
