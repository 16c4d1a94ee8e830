package sitedata

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/filmshelf/internal/frontmatter"
)

// Reserved document keys. Front matter may not override them.
const (
	KeyContent = "content"
	KeyPath    = "path"
	KeyName    = "name"
	KeySlug    = "slug"
	KeyURL     = "url"
)

// Document is one markdown file of a collection.
type Document struct {
	// Path is relative to the site root, slash separated.
	Path string
	// Name is the file name, e.g. "dune.md".
	Name string
	// Slug is the URL segment derived from Name, see Slugify.
	Slug   string
	Fields map[string]any
	Body   []byte
}

// Collection is a named, path-ordered set of documents.
type Collection struct {
	Name      string
	Documents []Document
}

// LoadCollection reads every *.md file directly under dir. root is the site
// root used to compute Document.Path. A missing directory is an error, and
// so are two documents whose names slugify to the same value.
func LoadCollection(name, root, dir string) (*Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read collection directory").
			WithContext("collection", name).
			WithContext("path", dir).
			Build()
	}

	col := &Collection{Name: name}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		full := filepath.Join(dir, e.Name())
		doc, err := loadDocument(root, full)
		if err != nil {
			return nil, err
		}
		col.Documents = append(col.Documents, doc)
	}

	sort.Slice(col.Documents, func(i, j int) bool {
		return col.Documents[i].Path < col.Documents[j].Path
	})

	// Documents render to <slug>/index.html, so a shared slug would overwrite.
	seen := make(map[string]string, len(col.Documents))
	for _, d := range col.Documents {
		if prev, dup := seen[d.Slug]; dup {
			return nil, ferrors.DataError("documents share a slug").
				WithContext("collection", name).
				WithContext("slug", d.Slug).
				WithContext("files", []string{prev, d.Path}).
				Build()
		}
		seen[d.Slug] = d.Path
	}
	return col, nil
}

func loadDocument(root, full string) (Document, error) {
	raw, err := os.ReadFile(full)
	if err != nil {
		return Document{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read document").
			WithContext("file", full).
			Build()
	}

	parsed, err := frontmatter.Parse(raw)
	if err != nil {
		return Document{}, ferrors.WrapError(err, ferrors.CategoryData, "parse front matter").
			WithContext("file", full).
			Build()
	}

	rel, err := filepath.Rel(root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = full
	}
	name := filepath.Base(full)

	return Document{
		Path:   filepath.ToSlash(rel),
		Name:   name,
		Slug:   Slugify(name),
		Fields: parsed.Fields,
		Body:   parsed.Body,
	}, nil
}

// Map returns the document as template data: its front matter plus the
// reserved keys. urlPrefix is prepended to the slug to form "url".
func (d Document) Map(urlPrefix string) map[string]any {
	m := make(map[string]any, len(d.Fields)+5)
	for k, v := range d.Fields {
		m[k] = v
	}
	m[KeyContent] = string(d.Body)
	m[KeyPath] = d.Path
	m[KeyName] = d.Name
	m[KeySlug] = d.Slug
	m[KeyURL] = strings.TrimSuffix(urlPrefix, "/") + "/" + d.Slug + "/"
	return m
}

// Items returns the documents as template data, in path order.
func (c *Collection) Items(urlPrefix string) []any {
	out := make([]any, 0, len(c.Documents))
	for _, d := range c.Documents {
		out = append(out, d.Map(urlPrefix))
	}
	return out
}
