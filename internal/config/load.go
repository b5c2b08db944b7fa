package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Pikatsuto/raspberry-builds/internal/foundation/errors"
)

// envFiles are loaded from the configuration file's directory, most specific first.
var envFiles = []string{".env.local", ".env"}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Override adjusts a parsed configuration before defaults are applied.
type Override func(*Config)

// WithPreset selects the layout preset, replacing the file's choice.
func WithPreset(p string) Override {
	return func(c *Config) {
		if p != "" {
			c.Layout.Preset = Preset(p)
		}
	}
}

// WithOutputRoot replaces the layout's output root.
func WithOutputRoot(dir string) Override {
	return func(c *Config) {
		if dir != "" {
			c.Layout.OutputRoot = dir
		}
	}
}

// Load reads the configuration file at configPath. A missing file is not an error:
// defaults apply. Environment references (${VAR}) are expanded after .env files
// have been loaded. Overrides run before defaults; the returned configuration is
// validated.
func Load(configPath string, overrides ...Override) (*Config, error) {
	if err := LoadEnv(filepath.Dir(configPath)); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load environment files").
			WithContext("dir", filepath.Dir(configPath)).
			Build()
	}

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		expanded := expandEnv(data)
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").
				WithContext("file", configPath).
				Build()
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").
			WithContext("file", configPath).
			Build()
	}

	for _, o := range overrides {
		o(&cfg)
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").
			WithContext("file", configPath).
			Build()
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	// Defaults for the zero value never fail.
	_ = applyDefaults(&cfg)
	return &cfg
}

// LoadEnv loads .env.local and .env from dir when present. Variables already set in
// the process environment are never overridden.
func LoadEnv(dir string) error {
	var present []string
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			present = append(present, p)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load %v: %w", present, err)
	}
	return nil
}

// applyDefaults applies default values to configuration
func applyDefaults(cfg *Config) error {
	return NewDefaultApplier().ApplyDefaults(cfg)
}

// Init writes an example configuration for the given preset.
func Init(configPath string, preset Preset, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("file", configPath).
			Build()
	}

	p := NormalizePreset(string(preset))
	if p == "" {
		return errors.ValidationError(fmt.Sprintf("unknown layout preset %q", preset)).Build()
	}
	example, err := Example(p)
	if err != nil {
		return err
	}
	//nolint:gosec // configuration file is meant to be readable
	if err := os.WriteFile(configPath, example, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration").
			WithContext("file", configPath).
			Build()
	}
	return nil
}

// Example renders a commented example configuration with the preset's values spelled out.
func Example(p Preset) ([]byte, error) {
	cfg := Config{Layout: LayoutConfig{Preset: p}}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	// Keep the file short: preset-derived layout fields stay implicit.
	cfg.Layout = LayoutConfig{Preset: p, BasePath: cfg.Layout.BasePath}

	body, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal example configuration: %w", err)
	}
	header := "# aggregate-content configuration\n" +
		"# Paths are relative to the repository root. ${VAR} references are expanded\n" +
		"# from the environment (.env and .env.local are loaded first).\n" +
		"# links.upstream defaults to the git origin remote when omitted.\n"
	return append([]byte(header), body...), nil
}

// expandEnv replaces ${VAR} references with their environment values. Bare $VAR
// and malformed references are left as written.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(envRef.FindSubmatch(ref)[1])))
	})
}
