package config

import "path/filepath"

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// WikiPath returns the absolute wiki directory for the given repository root.
func (c *Config) WikiPath(root string) string { return resolve(root, c.Sources.WikiDir) }

// ImagesPath returns the absolute images directory for the given repository root.
func (c *Config) ImagesPath(root string) string { return resolve(root, c.Sources.ImagesDir) }

// ReadmePath returns the absolute path of a configured readme.
func (c *Config) ReadmePath(root string, r Readme) string { return resolve(root, r.Path) }

// OutputRootPath returns the absolute content root.
func (c *Config) OutputRootPath(root string) string { return resolve(root, c.Layout.OutputRoot) }

// SectionPath returns the absolute directory of an output section.
func (c *Config) SectionPath(root string, s Section) string {
	return filepath.Join(c.OutputRootPath(root), s.Dir)
}

// OutputDirs returns the distinct output directories reset before a run, in
// general, image, readmes, image-sources order.
func (c *Config) OutputDirs(root string) []string {
	sections := []Section{c.Layout.General, c.Layout.Image, c.Layout.Readmes, c.Layout.ImageSources.Section}
	seen := make(map[string]bool, len(sections))
	dirs := make([]string, 0, len(sections))
	for _, s := range sections {
		p := c.SectionPath(root, s)
		if seen[p] {
			continue
		}
		seen[p] = true
		dirs = append(dirs, p)
	}
	return dirs
}

// SourcePaths returns every read-only input location.
func (c *Config) SourcePaths(root string) []string {
	paths := []string{c.WikiPath(root), c.ImagesPath(root)}
	for _, r := range c.Sources.Readmes {
		paths = append(paths, c.ReadmePath(root, r))
	}
	return paths
}
