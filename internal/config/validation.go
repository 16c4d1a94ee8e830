package config

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"

	"git.home.luguber.info/inful/filmshelf/internal/foundation"
	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
)

var configValidators = foundation.NewValidatorChain(
	validateCollections,
	validatePaths,
	validateLogging,
	validateMarkdown,
	validateWatch,
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	result := configValidators.Validate(cfg)
	if result.Valid {
		return nil
	}
	return ferrors.ConfigError("configuration validation failed").
		WithContext("problems", result.Messages()).
		WithCause(result.ToError()).
		Build()
}

func validateCollections(cfg *Config) foundation.ValidationResult {
	result := foundation.Valid()
	seen := make(map[string]struct{}, len(cfg.Collections))

	for i, c := range cfg.Collections {
		field := fmt.Sprintf("collections[%d]", i)
		fail := func(code, msg string) {
			result = result.Combine(foundation.Invalid(foundation.NewValidationError(field, code, msg)))
		}

		switch {
		case c.Name == "":
			fail("required", "name is required")
		case strings.ContainsAny(c.Name, `/\`):
			fail("invalid", fmt.Sprintf("name %q must not contain path separators", c.Name))
		}
		if _, dup := seen[c.Name]; dup && c.Name != "" {
			fail("duplicate", fmt.Sprintf("duplicate name %q", c.Name))
		}
		seen[c.Name] = struct{}{}
		if c.Dir == "" {
			fail("required", "dir is required")
		}
		if c.Layout == "" {
			fail("required", "layout is required")
		}
	}
	return result
}

func validatePaths(cfg *Config) foundation.ValidationResult {
	p := cfg.Paths
	result := foundation.Valid()
	if p.Output == p.Data || p.Output == p.Pages || p.Output == p.Layouts {
		result = result.Combine(foundation.Invalid(foundation.NewValidationError("paths.output", "overlap", "must differ from the input directories")))
	}
	if p.History != "" && strings.HasSuffix(p.History, "/") {
		result = result.Combine(foundation.Invalid(foundation.NewValidationError("paths.history", "invalid", "must name a file, not a directory")))
	}
	return result
}

func validateLogging(cfg *Config) foundation.ValidationResult {
	result := foundation.Valid()
	if _, err := logLevelNormalizer.Parse(string(cfg.Logging.Level)); err != nil {
		result = result.Combine(foundation.Invalid(foundation.NewValidationError("logging.level", "invalid", err.Error())))
	}
	if _, err := logFormatNormalizer.Parse(string(cfg.Logging.Format)); err != nil {
		result = result.Combine(foundation.Invalid(foundation.NewValidationError("logging.format", "invalid", err.Error())))
	}
	return result
}

func validateMarkdown(cfg *Config) foundation.ValidationResult {
	style := cfg.Markdown.HighlightStyle
	if style == "" || style == "none" {
		return foundation.Valid()
	}
	if _, ok := styles.Registry[strings.ToLower(style)]; !ok {
		return foundation.Invalid(foundation.NewValidationError("markdown.highlight_style", "unknown",
			fmt.Sprintf("unknown style %q", style)))
	}
	return foundation.Valid()
}

func validateWatch(cfg *Config) foundation.ValidationResult {
	if cfg.Watch.RefreshInterval < 0 {
		return foundation.Invalid(foundation.NewValidationError("watch.refresh_interval", "negative", "must not be negative"))
	}
	return foundation.Valid()
}
