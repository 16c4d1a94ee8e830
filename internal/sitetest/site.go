package sitetest

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// Site is a fluent builder for a site tree under a temporary root.
type Site struct {
	t    *testing.T
	Root string
}

// New creates an empty site in t.TempDir().
func New(t *testing.T) *Site {
	t.Helper()
	return &Site{t: t, Root: t.TempDir()}
}

// Path joins rel onto the site root.
func (s *Site) Path(rel ...string) string {
	return filepath.Join(append([]string{s.Root}, rel...)...)
}

// Write creates rel with content, making parent directories.
func (s *Site) Write(rel, content string) *Site {
	s.t.Helper()
	full := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		s.t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		s.t.Fatalf("write %s: %v", full, err)
	}
	return s
}

// Data writes _data/<name>.
func (s *Site) Data(name, content string) *Site {
	s.t.Helper()
	return s.Write(filepath.Join("_data", name), content)
}

// Layout writes _layouts/<name>.
func (s *Site) Layout(name, tmpl string) *Site {
	s.t.Helper()
	return s.Write(filepath.Join("_layouts", name), tmpl)
}

// Page writes _pages/<name>.
func (s *Site) Page(name, tmpl string) *Site {
	s.t.Helper()
	return s.Write(filepath.Join("_pages", name), tmpl)
}

// Document writes a markdown file into dir with fields as YAML front matter.
// A nil fields map writes the body only.
func (s *Site) Document(dir, name string, fields map[string]any, body string) *Site {
	s.t.Helper()
	content := body
	if fields != nil {
		fm, err := yaml.Marshal(fields)
		if err != nil {
			s.t.Fatalf("marshal front matter for %s: %v", name, err)
		}
		content = "---\n" + string(fm) + "---\n" + body
	}
	return s.Write(filepath.Join(dir, name), content)
}

// Config writes filmshelf.yaml at the root and returns its path.
func (s *Site) Config(content string) string {
	s.t.Helper()
	s.Write("filmshelf.yaml", content)
	return s.Path("filmshelf.yaml")
}

// Output returns assertions rooted at dir below the site root.
func (s *Site) Output(dir string) *FileAssertions {
	return NewFileAssertions(s.t, s.Path(dir))
}
