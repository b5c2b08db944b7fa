package config

import (
	"fmt"
	"strings"
)

// Preset names a static-site generator content layout.
type Preset string

const (
	PresetStarlight Preset = "starlight"
	PresetNuxt      Preset = "nuxt"
)

// Presets lists the known layout presets in display order.
func Presets() []Preset {
	return []Preset{PresetStarlight, PresetNuxt}
}

// NormalizePreset canonicalizes a raw preset name. Unknown values return "".
func NormalizePreset(raw string) Preset {
	switch Preset(strings.ToLower(strings.TrimSpace(raw))) {
	case PresetStarlight:
		return PresetStarlight
	case PresetNuxt:
		return PresetNuxt
	default:
		return ""
	}
}

func boolPtr(v bool) *bool { return &v }

// presetLayout returns the full layout convention of a preset.
func presetLayout(p Preset) (LayoutConfig, error) {
	switch p {
	case PresetStarlight:
		return LayoutConfig{
			Preset:     PresetStarlight,
			OutputRoot: "docs/src/content/docs",
			BasePath:   "/raspberry-builds",
			General:    Section{Dir: "docs", Route: "docs", Label: "docs"},
			Image:      Section{Dir: "docs", Route: "docs", Label: "docs"},
			Readmes:    Section{Dir: "docs", Route: "docs", Label: "docs"},
			ImageSources: ImageSourcesSection{
				Section: Section{Dir: "image-sources", Route: "image-sources", Label: "image-sources"},
				Prefix:  "config-",
			},
			IncludeCategory:    boolPtr(false),
			LowercaseFilenames: boolPtr(true),
		}, nil
	case PresetNuxt:
		return LayoutConfig{
			Preset:     PresetNuxt,
			OutputRoot: "docs/content",
			BasePath:   "/raspberry-builds",
			General:    Section{Dir: "docs", Route: "docs", Label: "docs"},
			Image:      Section{Dir: "images", Route: "images", Label: "images"},
			Readmes:    Section{Dir: "docs", Route: "docs", Label: "docs"},
			ImageSources: ImageSourcesSection{
				Section: Section{Dir: "images", Route: "images", Label: "images"},
				Prefix:  "config-",
			},
			IncludeCategory:    boolPtr(true),
			LowercaseFilenames: boolPtr(false),
		}, nil
	default:
		return LayoutConfig{}, fmt.Errorf("unknown layout preset %q (expected one of %v)", p, Presets())
	}
}

// mergeSection fills empty fields of s from the preset section.
func mergeSection(s, preset Section) Section {
	if s.Dir == "" {
		s.Dir = preset.Dir
	}
	if s.Route == "" {
		s.Route = preset.Route
	}
	if s.Label == "" {
		s.Label = preset.Label
	}
	return s
}
