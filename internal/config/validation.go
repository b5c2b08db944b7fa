package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Pikatsuto/raspberry-builds/internal/foundation/errors"
)

// ValidateConfig validates a configuration that has had defaults applied.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	if err := validator.validate(); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "configuration validation failed").Build()
	}
	return nil
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSources(); err != nil {
		return err
	}
	if err := cv.validateLayout(); err != nil {
		return err
	}
	return cv.validateLinks()
}

func (cv *configurationValidator) validateSources() error {
	s := cv.config.Sources
	if strings.TrimSpace(s.WikiDir) == "" {
		return fmt.Errorf("sources.wiki_dir cannot be empty")
	}
	if strings.TrimSpace(s.ImagesDir) == "" {
		return fmt.Errorf("sources.images_dir cannot be empty")
	}
	seen := make(map[string]bool, len(s.Readmes))
	for i, r := range s.Readmes {
		if strings.TrimSpace(r.Path) == "" {
			return fmt.Errorf("sources.readmes[%d].path cannot be empty", i)
		}
		if strings.TrimSpace(r.Title) == "" {
			return fmt.Errorf("sources.readmes[%d].title cannot be empty", i)
		}
		if seen[r.Path] {
			return fmt.Errorf("duplicate readme path: %s", r.Path)
		}
		seen[r.Path] = true
	}
	for _, name := range cv.config.Wiki.Exclude {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("wiki.exclude entries must be file names, got %q", name)
		}
	}
	return nil
}

func (cv *configurationValidator) validateLayout() error {
	l := cv.config.Layout
	if NormalizePreset(string(l.Preset)) == "" {
		return fmt.Errorf("unknown layout preset %q", l.Preset)
	}
	if strings.TrimSpace(l.OutputRoot) == "" {
		return fmt.Errorf("layout.output_root cannot be empty")
	}
	if l.BasePath != "" && !strings.HasPrefix(l.BasePath, "/") {
		return fmt.Errorf("layout.base_path must start with '/', got %q", l.BasePath)
	}
	sections := map[string]Section{
		"general":       l.General,
		"image":         l.Image,
		"readmes":       l.Readmes,
		"image_sources": l.ImageSources.Section,
	}
	for name, s := range sections {
		if !filepath.IsLocal(s.Dir) {
			return fmt.Errorf("layout.%s.dir must be a relative path inside the output root, got %q", name, s.Dir)
		}
		if s.Route == "" || strings.HasPrefix(s.Route, "/") || strings.HasSuffix(s.Route, "/") || strings.Contains(s.Route, "..") {
			return fmt.Errorf("layout.%s.route must be a relative URL segment, got %q", name, s.Route)
		}
	}
	if strings.ContainsAny(l.ImageSources.Prefix, `/\`) {
		return fmt.Errorf("layout.image_sources.prefix cannot contain path separators, got %q", l.ImageSources.Prefix)
	}
	return nil
}

func (cv *configurationValidator) validateLinks() error {
	lc := cv.config.Links
	if lc.Upstream != "" {
		u, err := url.Parse(lc.Upstream)
		if err != nil {
			return fmt.Errorf("links.upstream: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("links.upstream must be an http(s) URL, got %q", lc.Upstream)
		}
	}
	for _, m := range lc.MetaPaths {
		if strings.TrimSpace(m) == "" || strings.Contains(m, "/") {
			return fmt.Errorf("links.meta_paths entries must be single path segments, got %q", m)
		}
	}
	if strings.Contains(lc.ReleasesRoute, "..") || strings.HasPrefix(lc.ReleasesRoute, "/") {
		return fmt.Errorf("links.releases_route must be a relative URL path, got %q", lc.ReleasesRoute)
	}
	return nil
}

// CheckOutputIsolation rejects layouts whose output directories overlap a source
// location in either direction. Output directories are emptied before every run.
func (c *Config) CheckOutputIsolation(root string) error {
	for _, out := range c.OutputDirs(root) {
		for _, src := range c.SourcePaths(root) {
			if within(out, src) || within(src, out) {
				return errors.ConfigError("output directory overlaps a source location").
					WithContext("output", out).
					WithContext("source", src).
					Build()
			}
		}
	}
	return nil
}

// within reports whether p equals dir or lies below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}
