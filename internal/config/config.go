// Package config loads the optional project file (surveygen.yaml) that
// supplies defaults for the command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no config path
// is given.
const DefaultFileName = "surveygen.yaml"

// Sentinel errors for configuration operations.
var (
	// ErrInvalidYAML indicates invalid YAML syntax in the configuration file.
	ErrInvalidYAML = errors.New("config: invalid YAML syntax")

	// ErrInvalidConfig indicates a value failed validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config mirrors surveygen.yaml. Relative paths are resolved against the
// directory of the file they were read from.
type Config struct {
	// Input is the survey location: a spreadsheet, a YAML/JSON document or
	// an http(s) URL.
	Input string `yaml:"input"`
	// Header is a file whose content is inlined into every document head.
	Header string `yaml:"header"`
	// Language selects the default language of the single-document output.
	Language string `yaml:"language"`
	// HTML is the single-document output path.
	HTML string `yaml:"html"`
	// Zip is the per-language archive output path.
	Zip string `yaml:"zip"`
	// Dump writes the loaded survey as JSON.
	Dump string `yaml:"dump"`
	// Exclude lists question names dropped while loading. Nil keeps the
	// loader default.
	Exclude []string `yaml:"exclude"`
	// Preset is a JSON or YAML patch document applied after loading.
	Preset string `yaml:"preset"`
	// Assume pins answers known at build time; conditions that depend only
	// on them are settled before rendering.
	Assume map[string]string `yaml:"assume"`
	// Hidden adds hidden inputs posted with the answers.
	Hidden map[string]string `yaml:"hidden"`
}

// Load reads path. An empty path looks for DefaultFileName in the working
// directory and returns an empty Config when it does not exist; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that can be verified without touching the
// filesystem.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Language != "" {
		if _, err := language.Parse(c.Language); err != nil {
			return fmt.Errorf("%w: language %q: %v", ErrInvalidConfig, c.Language, err)
		}
	}
	for _, name := range c.Exclude {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: exclude contains an empty name", ErrInvalidConfig)
		}
	}
	for name := range c.Assume {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: assume contains an empty field name", ErrInvalidConfig)
		}
	}
	return nil
}

// AssumedValues converts Assume into evaluation values.
func (c *Config) AssumedValues() map[string]any {
	if c == nil || len(c.Assume) == 0 {
		return nil
	}
	out := make(map[string]any, len(c.Assume))
	for name, value := range c.Assume {
		out[name] = value
	}
	return out
}

func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.Header, &c.HTML, &c.Zip, &c.Dump, &c.Preset} {
		*p = resolve(dir, *p)
	}
	if !isURL(c.Input) {
		c.Input = resolve(dir, c.Input)
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || dir == "" || dir == "." {
		return path
	}
	return filepath.Join(dir, path)
}

func isURL(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
