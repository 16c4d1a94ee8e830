package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/filmshelf/internal/rating"
)

// Environment variables that override file values.
const (
	EnvOutput   = "FILMSHELF_OUTPUT"
	EnvLogLevel = "FILMSHELF_LOG_LEVEL"
)

const (
	defaultDebounce       = 300 * time.Millisecond
	defaultHighlightStyle = "github"
)

func applyDefaults(cfg *Config) {
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "/"
	}

	if cfg.Paths.Data == "" {
		cfg.Paths.Data = "_data"
	}
	if cfg.Paths.Layouts == "" {
		cfg.Paths.Layouts = "_layouts"
	}
	if cfg.Paths.Pages == "" {
		cfg.Paths.Pages = "_pages"
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = "_site"
	}

	for i := range cfg.Collections {
		if cfg.Collections[i].Output == "" {
			cfg.Collections[i].Output = cfg.Collections[i].Name
		}
	}

	def := rating.DefaultGlyphs()
	if cfg.Glyphs.Full == "" {
		cfg.Glyphs.Full = def.Full
	}
	if cfg.Glyphs.Half == "" {
		cfg.Glyphs.Half = def.Half
	}
	if cfg.Glyphs.GaveUp == "" {
		cfg.Glyphs.GaveUp = def.GaveUp
	}
	if cfg.Glyphs.Bar == "" {
		cfg.Glyphs.Bar = def.Bar
	}

	if cfg.Markdown.HighlightStyle == "" {
		cfg.Markdown.HighlightStyle = defaultHighlightStyle
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = defaultDebounce
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Paths.Output = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
}

// normalizeLogging canonicalizes validated logging values.
func normalizeLogging(cfg *Config) {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

// loadEnvFiles loads .env and .env.local when present. Variables already set
// in the process environment are kept.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		_ = godotenv.Load(name)
	}
}
