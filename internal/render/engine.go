// Package render executes the site's templates with the filter set and
// writes the generated files.
package render

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/filmshelf/internal/filters"
	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/filmshelf/internal/history"
	"git.home.luguber.info/inful/filmshelf/internal/logfields"
	"git.home.luguber.info/inful/filmshelf/internal/metrics"
	"git.home.luguber.info/inful/filmshelf/internal/rating"
	"git.home.luguber.info/inful/filmshelf/internal/sitedata"
)

// TemplateExt is the extension of layout and page templates.
const TemplateExt = ".tmpl"

// Collection tells the engine how to render one collection.
type Collection struct {
	Name   string
	Dir    string
	Layout string
	Output string
}

// Options configures an Engine. Directories are absolute or relative to the
// working directory; Root is used to derive page paths.
type Options struct {
	Root        string
	DataDir     string
	LayoutsDir  string
	PagesDir    string
	OutputDir   string
	Collections []Collection
	Title       string
	BaseURL     string
	Formatter   *rating.Formatter
	// HighlightStyle is the chroma style for fenced code in markdown;
	// "none" disables highlighting and "" uses filters.DefaultHighlightStyle.
	HighlightStyle string
	Logger         *slog.Logger
	// Recorder receives build metrics; nil means metrics.NoopRecorder.
	Recorder metrics.Recorder
	// Journal, when set, gets an entry for every build attempt.
	Journal Journal
}

// Journal records finished builds. *history.Store satisfies it.
type Journal interface {
	Record(ctx context.Context, e history.Entry) error
}

// Site is exposed to templates as .Site.
type Site struct {
	Title   string
	BaseURL string
	// Revision is the git commit of the site sources, empty outside a repository.
	Revision string
	Data     map[string]any
}

// PageData is the root value every template executes against.
type PageData struct {
	Site Site
	// Page holds the document fields for collection documents, and path/name
	// for standalone pages.
	Page map[string]any
	// Content is the rendered markdown body of a collection document.
	Content string
}

// Report summarizes a build.
type Report struct {
	// BuildID identifies the build in logs.
	BuildID   string
	Revision  string
	Pages     int
	Documents int
	Files     []string
	Duration  time.Duration
}

// Engine renders a site. It is not safe for concurrent Build calls.
type Engine struct {
	opts    Options
	filters *filters.Set
	logger  *slog.Logger
}

// NewEngine returns an engine for opts.
func NewEngine(opts Options) *Engine {
	if opts.Formatter == nil {
		opts.Formatter = rating.New(rating.DefaultGlyphs())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Engine{
		opts:    opts,
		filters: filters.New(opts.Formatter, highlightOption(opts.HighlightStyle)),
		logger:  logger,
	}
}

func highlightOption(style string) filters.Option {
	switch style {
	case "":
		return filters.WithHighlightStyle(filters.DefaultHighlightStyle)
	case "none":
		return filters.WithHighlightStyle("")
	default:
		return filters.WithHighlightStyle(style)
	}
}

// Inputs lists the directories a build reads.
func (e *Engine) Inputs() []string {
	var dirs []string
	for _, d := range []string{e.opts.DataDir, e.opts.LayoutsDir, e.opts.PagesDir} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	for _, c := range e.opts.Collections {
		dirs = append(dirs, c.Dir)
	}
	return dirs
}

// Build loads the site inputs and renders every page and collection document.
func (e *Engine) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{BuildID: uuid.NewString()}

	err := e.build(ctx, report)
	report.Duration = time.Since(start)

	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case ctx.Err() != nil:
		outcome = metrics.OutcomeCanceled
	default:
		outcome = metrics.OutcomeFailed
	}

	rec := e.opts.Recorder
	rec.ObserveBuildDuration(report.Duration)
	rec.AddRenderedFiles(metrics.KindPage, report.Pages)
	rec.AddRenderedFiles(metrics.KindDocument, report.Documents)
	rec.IncBuildOutcome(outcome)
	e.journal(ctx, start, report, outcome, err)

	if err != nil {
		return nil, err
	}

	e.logger.Info("Site built",
		logfields.BuildID(report.BuildID),
		logfields.Output(e.opts.OutputDir),
		slog.Int("pages", report.Pages),
		slog.Int("documents", report.Documents),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

// journal failures are logged; a build never fails because of its history.
func (e *Engine) journal(ctx context.Context, start time.Time, report *Report, outcome metrics.OutcomeLabel, buildErr error) {
	if e.opts.Journal == nil {
		return
	}
	entry := history.Entry{
		BuildID:   report.BuildID,
		Revision:  report.Revision,
		StartedAt: start,
		Duration:  report.Duration,
		Outcome:   string(outcome),
		Pages:     report.Pages,
		Documents: report.Documents,
	}
	if buildErr != nil {
		entry.Error = buildErr.Error()
	}
	if err := e.opts.Journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		e.logger.Warn("Failed to record build history", logfields.BuildID(report.BuildID), logfields.Error(err))
	}
}

func (e *Engine) build(ctx context.Context, report *Report) error {
	site, collections, err := e.loadSite()
	if err != nil {
		return err
	}
	report.Revision = site.Revision

	layouts, err := e.parseLayouts()
	if err != nil {
		return err
	}

	pages, err := e.pageFiles()
	if err != nil {
		return err
	}
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := e.renderPage(layouts, site, p)
		if err != nil {
			return err
		}
		report.Pages++
		report.Files = append(report.Files, out)
	}

	for i, spec := range e.opts.Collections {
		for _, doc := range collections[i].Documents {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := e.renderDocument(layouts, site, spec, doc)
			if err != nil {
				return err
			}
			report.Documents++
			report.Files = append(report.Files, out)
		}
	}

	return nil
}

func (e *Engine) loadSite() (Site, []*sitedata.Collection, error) {
	data, err := sitedata.LoadDataDir(e.opts.DataDir)
	if err != nil {
		return Site{}, nil, err
	}

	collections := make([]*sitedata.Collection, 0, len(e.opts.Collections))
	for _, spec := range e.opts.Collections {
		col, err := sitedata.LoadCollection(spec.Name, e.opts.Root, spec.Dir)
		if err != nil {
			return Site{}, nil, err
		}
		if _, clash := data[spec.Name]; clash {
			return Site{}, nil, ferrors.DataError("collection name collides with a data file").
				WithContext("collection", spec.Name).
				Build()
		}
		data[spec.Name] = col.Items(e.urlFor(spec.Output))
		collections = append(collections, col)
		e.logger.Debug("Loaded collection", logfields.Collection(spec.Name), logfields.Count(len(col.Documents)))
	}

	rev, err := sitedata.Revision(e.opts.Root)
	if err != nil {
		e.logger.Warn("Failed to read site revision", logfields.Path(e.opts.Root), logfields.Error(err))
	}

	return Site{Title: e.opts.Title, BaseURL: e.opts.BaseURL, Revision: rev, Data: data}, collections, nil
}

func (e *Engine) parseLayouts() (*template.Template, error) {
	root := template.New("").Option("missingkey=zero").Funcs(e.filters.FuncMap(nil))
	if e.opts.LayoutsDir == "" {
		return root, nil
	}

	files, err := filepath.Glob(filepath.Join(e.opts.LayoutsDir, "*"+TemplateExt))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "list layouts").Build()
	}
	if len(files) == 0 {
		return root, nil
	}

	layouts, err := root.ParseFiles(files...)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "parse layouts").
			WithContext("path", e.opts.LayoutsDir).
			Build()
	}
	e.logger.Debug("Parsed layouts", logfields.Path(e.opts.LayoutsDir), logfields.Count(len(files)))
	return layouts, nil
}

func (e *Engine) pageFiles() ([]string, error) {
	if e.opts.PagesDir == "" {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(e.opts.PagesDir, "*"+TemplateExt))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "list pages").Build()
	}
	sort.Strings(files)
	return files, nil
}

func (e *Engine) renderPage(layouts *template.Template, site Site, file string) (string, error) {
	name := filepath.Base(file)
	page := filters.Page{Path: e.relPath(file), Name: name}

	tpl, err := layouts.Clone()
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "clone layouts").Build()
	}
	tpl = tpl.Funcs(e.filters.FuncMap(&page))

	src, err := os.ReadFile(file)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "read page").
			WithContext("file", file).
			Build()
	}
	if _, err := tpl.New(name).Parse(string(src)); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "parse page").
			WithContext("file", file).
			Build()
	}

	data := PageData{
		Site: site,
		Page: map[string]any{sitedata.KeyPath: page.Path, sitedata.KeyName: page.Name},
	}
	out := filepath.Join(e.opts.OutputDir, OutputName(name))
	return out, e.execute(tpl, name, data, out)
}

func (e *Engine) renderDocument(layouts *template.Template, site Site, spec Collection, doc sitedata.Document) (string, error) {
	page := filters.Page{Path: doc.Path, Name: doc.Name}

	tpl, err := layouts.Clone()
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "clone layouts").Build()
	}
	tpl = tpl.Funcs(e.filters.FuncMap(&page))
	if tpl.Lookup(spec.Layout) == nil {
		return "", ferrors.TemplateError("layout not found").
			WithContext("collection", spec.Name).
			WithContext("template", spec.Layout).
			Build()
	}

	content, err := e.filters.Markdownify(string(doc.Body))
	if err != nil {
		return "", err
	}

	data := PageData{
		Site:    site,
		Page:    doc.Map(e.urlFor(spec.Output)),
		Content: content,
	}
	out := filepath.Join(e.opts.OutputDir, filepath.FromSlash(spec.Output), doc.Slug, "index.html")
	return out, e.execute(tpl, spec.Layout, data, out)
}

func (e *Engine) execute(tpl *template.Template, name string, data PageData, out string) error {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryTemplate, "execute template").
			WithContext("template", name).
			WithContext("output", out).
			Build()
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create output directory").
			WithContext("path", filepath.Dir(out)).
			Build()
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output").
			WithContext("file", out).
			Build()
	}
	e.logger.Debug("Rendered", logfields.Template(name), logfields.File(out))
	return nil
}

func (e *Engine) relPath(file string) string {
	rel, err := filepath.Rel(e.opts.Root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

func (e *Engine) urlFor(output string) string {
	return strings.TrimSuffix(e.opts.BaseURL, "/") + "/" + strings.Trim(output, "/")
}

// OutputName maps a page template name to its output file name:
// "about.tmpl" becomes "about.html" and "feed.xml.tmpl" becomes "feed.xml".
func OutputName(templateName string) string {
	base := strings.TrimSuffix(templateName, TemplateExt)
	if filepath.Ext(base) == "" {
		return base + ".html"
	}
	return base
}
