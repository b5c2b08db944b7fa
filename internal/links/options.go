package links

import "github.com/Pikatsuto/raspberry-builds/internal/config"

// ImagePagePrefix marks wiki pages that document a specific image.
const ImagePagePrefix = "Image-"

// wikiSegment is the upstream URL segment of the repository wiki.
const wikiSegment = "wiki"

// Options parameterize a Normalizer.
type Options struct {
	// BasePath is the site's URL prefix without trailing slash ("" for the root).
	BasePath string
	// GeneralRoute and ImageRoute are the URL segments of the two page categories.
	GeneralRoute string
	ImageRoute   string
	// Upstream is the repository web URL; empty disables upstream rewriting.
	Upstream      string
	Branch        string
	MetaPaths     []string
	ReleasesRoute string
	LicenseFiles  []string
}

// OptionsFromConfig derives normalizer options from a loaded configuration and the
// resolved upstream URL.
func OptionsFromConfig(cfg *config.Config, upstream string) Options {
	return Options{
		BasePath:      cfg.Layout.BasePath,
		GeneralRoute:  cfg.Layout.General.Route,
		ImageRoute:    cfg.Layout.Image.Route,
		Upstream:      upstream,
		Branch:        cfg.Links.Branch,
		MetaPaths:     cfg.Links.MetaPaths,
		ReleasesRoute: cfg.Links.ReleasesRoute,
		LicenseFiles:  cfg.Links.LicenseFiles,
	}
}
