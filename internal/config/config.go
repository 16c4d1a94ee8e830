package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/filmshelf/internal/rating"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "filmshelf.yaml"

// Config is the filmshelf site configuration.
type Config struct {
	Site        SiteConfig         `yaml:"site"`
	Paths       PathsConfig        `yaml:"paths"`
	Collections []CollectionConfig `yaml:"collections,omitempty"`
	Glyphs      rating.Glyphs      `yaml:"glyphs"`
	Markdown    MarkdownConfig     `yaml:"markdown"`
	Logging     LoggingConfig      `yaml:"logging"`
	Watch       WatchConfig        `yaml:"watch"`

	// baseDir is the directory relative paths are resolved against.
	baseDir string
}

// SiteConfig holds values exposed to templates as .Site.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url"`
}

// PathsConfig locates the site inputs and output.
type PathsConfig struct {
	Data    string `yaml:"data"`              // YAML/JSON data files, exposed as .Site.Data.<name>
	Layouts string `yaml:"layouts"`           // layout templates used by collections
	Pages   string `yaml:"pages"`             // standalone page templates
	Output  string `yaml:"output"`            // generated site
	History string `yaml:"history,omitempty"` // SQLite build journal; empty disables it
}

// CollectionConfig describes a directory of front-matter documents.
type CollectionConfig struct {
	Name   string `yaml:"name"`
	Dir    string `yaml:"dir"`
	Layout string `yaml:"layout"`
	Output string `yaml:"output"` // sub-directory of the site output; defaults to Name
}

// MarkdownConfig tunes markdown rendering.
type MarkdownConfig struct {
	// HighlightStyle is a chroma style name for fenced code blocks, or "none".
	HighlightStyle string `yaml:"highlight_style"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// WatchConfig tunes the rebuild watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	// RefreshInterval forces a rebuild on a fixed schedule; zero disables it.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// Load reads, expands, defaults and validates the configuration at path.
// Relative paths inside the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.NewError(ferrors.CategoryNotFound, "configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read configuration").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve configuration directory").Build()
	}
	cfg.baseDir = abs
	return cfg, nil
}

// Parse decodes raw YAML and applies defaults, environment overrides and validation.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode configuration").Fatal().Build()
		}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	normalizeLogging(&cfg)
	return &cfg, nil
}

// Resolve returns p joined to the configuration directory unless p is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.NewError(ferrors.CategoryAlreadyExists, "configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Config{
		Site:  SiteConfig{Title: "Film Log", BaseURL: "/"},
		Paths: PathsConfig{History: ".filmshelf/history.db"},
		Collections: []CollectionConfig{
			{Name: "movies", Dir: "_movies", Layout: "review.tmpl", Output: "reviews"},
		},
	}
	applyDefaults(&example)
	normalizeLogging(&example)

	out, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "encode example configuration").Build()
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}

func (c CollectionConfig) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Dir)
}
