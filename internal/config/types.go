package config

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "aggregate.yaml"

// Config is the aggregation configuration, loaded once at the CLI boundary and
// passed explicitly into every component.
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Wiki    WikiConfig    `yaml:"wiki"`
	Layout  LayoutConfig  `yaml:"layout"`
	Links   LinksConfig   `yaml:"links"`
}

// SourcesConfig locates the read-only inputs. Relative paths are resolved against RepoRoot.
type SourcesConfig struct {
	RepoRoot  string   `yaml:"repo_root,omitempty"` // Empty: detect via git
	WikiDir   string   `yaml:"wiki_dir"`            // Wiki page directory
	ImagesDir string   `yaml:"images_dir"`          // One subdirectory per image
	Readmes   []Readme `yaml:"readmes"`             // Top-level documents copied as-is
}

// Readme is a top-level documentation file published under a fixed title.
type Readme struct {
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
}

// WikiConfig controls the wiki step.
type WikiConfig struct {
	Exclude []string `yaml:"exclude"` // Exact file names skipped (navigation sidebar)
}

// Section describes one output location of the content tree.
type Section struct {
	Dir   string `yaml:"dir,omitempty"`   // Directory below the output root
	Route string `yaml:"route,omitempty"` // URL segment below the base path
	Label string `yaml:"label,omitempty"` // Category value written to frontmatter
}

// ImageSourcesSection is the output location of generated image configuration pages.
type ImageSourcesSection struct {
	Section `yaml:",inline"`
	Prefix  string `yaml:"prefix,omitempty"` // Output file name prefix
}

// LayoutConfig describes the static-site generator's content layout. Any field set
// explicitly overrides the value supplied by Preset.
type LayoutConfig struct {
	Preset             Preset              `yaml:"preset"`
	OutputRoot         string              `yaml:"output_root,omitempty"`
	BasePath           string              `yaml:"base_path,omitempty"`
	General            Section             `yaml:"general,omitempty"`
	Image              Section             `yaml:"image,omitempty"`
	Readmes            Section             `yaml:"readmes,omitempty"`
	ImageSources       ImageSourcesSection `yaml:"image_sources,omitempty"`
	IncludeCategory    *bool               `yaml:"include_category,omitempty"`
	LowercaseFilenames *bool               `yaml:"lowercase_filenames,omitempty"`
	Fingerprint        bool                `yaml:"fingerprint,omitempty"`
}

// CategoryEnabled reports whether generated frontmatter carries a category key.
func (l LayoutConfig) CategoryEnabled() bool {
	return l.IncludeCategory != nil && *l.IncludeCategory
}

// LowercaseNames reports whether output file names are lower-cased.
func (l LayoutConfig) LowercaseNames() bool {
	return l.LowercaseFilenames != nil && *l.LowercaseFilenames
}

// LinksConfig parameterizes the link normalizer.
type LinksConfig struct {
	Upstream      string   `yaml:"upstream,omitempty"` // Empty: derived from the origin remote
	Branch        string   `yaml:"branch"`
	MetaPaths     []string `yaml:"meta_paths"`
	ReleasesRoute string   `yaml:"releases_route"`
	LicenseFiles  []string `yaml:"license_files"`
}
