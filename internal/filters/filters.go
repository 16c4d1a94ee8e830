// Package filters exposes the film-log helpers to templates.
//
// The names match the filters the site's layouts were written against:
//
//	{{ parse_rating .rating }}
//	{{ rating_average .Site.Data.movies }}
//	{{ range rating_chart .Site.Data.movies }}{{ .Label }} {{ .Bar }}{{ end }}
//	{{ .Content | strip_headings }}
//	{{ itag_fix "poster" }}
//	{{ .content | markdownify }}
package filters

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/filmshelf/internal/rating"
)

// Filter names as seen from templates.
const (
	NameParseRating   = "parse_rating"
	NameRatingAverage = "rating_average"
	NameRatingChart   = "rating_chart"
	NameStripHeadings = "strip_headings"
	NameItagFix       = "itag_fix"
	NameMarkdownify   = "markdownify"
)

// Page identifies the page being rendered. Path is relative to the site root
// and ends in Name.
type Page struct {
	Path string
	Name string
}

// Dir returns Path with the trailing file name removed, keeping the slash.
func (p Page) Dir() string {
	return strings.TrimSuffix(p.Path, p.Name)
}

// Set builds template function maps around a rating formatter.
type Set struct {
	formatter *rating.Formatter
	markdown  goldmark.Markdown
}

// DefaultHighlightStyle is the chroma style used for fenced code blocks.
const DefaultHighlightStyle = "github"

// Option configures a Set.
type Option func(*settings)

type settings struct {
	highlightStyle string
}

// WithHighlightStyle selects the chroma style for fenced code blocks.
// An empty style disables highlighting.
func WithHighlightStyle(style string) Option {
	return func(s *settings) { s.highlightStyle = style }
}

// New returns a Set that renders ratings with f.
func New(f *rating.Formatter, opts ...Option) *Set {
	cfg := settings{highlightStyle: DefaultHighlightStyle}
	for _, opt := range opts {
		opt(&cfg)
	}

	exts := []goldmark.Extender{extension.GFM}
	if cfg.highlightStyle != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.highlightStyle),
			highlighting.WithFormatOptions(),
		))
	}

	return &Set{
		formatter: f,
		markdown: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// FuncMap returns the filters bound to page. page may be nil for templates
// that are not tied to a file; itag_fix then fails when called.
func (s *Set) FuncMap(page *Page) template.FuncMap {
	return template.FuncMap{
		NameParseRating:   s.ParseRating,
		NameRatingAverage: s.RatingAverage,
		NameRatingChart:   s.RatingChart,
		NameStripHeadings: StripHeadings,
		NameItagFix: func(name string) (string, error) {
			return ItagFix(page, name)
		},
		NameMarkdownify: s.Markdownify,
	}
}

// ParseRating formats a rating value.
func (s *Set) ParseRating(v any) (string, error) {
	return s.formatter.FormatValue(v)
}

// RatingAverage formats the average of items with two decimals.
func (s *Set) RatingAverage(items any) (string, error) {
	list, err := rating.ItemsFrom(items)
	if err != nil {
		return "", err
	}
	avg, err := rating.Average(list)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.2f", avg), nil
}

// RatingChart returns the histogram of items.
func (s *Set) RatingChart(items any) ([]rating.Bucket, error) {
	list, err := rating.ItemsFrom(items)
	if err != nil {
		return nil, err
	}
	return s.formatter.Histogram(list), nil
}

// ItagFix resolves an image name next to the current page: "poster" on
// page "_movies/dune.md" becomes "_movies/poster.jpg".
func ItagFix(page *Page, name string) (string, error) {
	if page == nil {
		return "", ferrors.TemplateError("itag_fix needs a page context").
			WithContext("input", name).
			Build()
	}
	return page.Dir() + name + ".jpg", nil
}

// Markdownify renders markdown to HTML.
func (s *Set) Markdownify(md string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(md), &buf); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "markdownify").Build()
	}
	return buf.String(), nil
}
