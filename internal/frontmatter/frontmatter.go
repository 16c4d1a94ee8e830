// Package frontmatter splits `---` delimited YAML front matter from a
// markdown document.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a front matter
// block but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a markdown file split into front matter and body.
type Document struct {
	// Raw is the front matter without delimiters.
	Raw []byte
	// Fields is Raw decoded; empty when the document has no front matter.
	Fields map[string]any
	Body   []byte
	// Had reports whether the document started with a front matter block.
	Had bool
}

// Split separates YAML front matter from the body. CRLF documents are
// handled. A document without an opening delimiter is all body.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	delim := []byte("---" + nl)

	if !bytes.HasPrefix(content, delim) {
		return nil, content, false, nil
	}

	rest := content[len(delim):]
	if bytes.HasPrefix(rest, delim) {
		return []byte{}, rest[len(delim):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		if trimmed, ok := bytes.CutSuffix(rest, []byte(nl+"---")); ok {
			return trimmed[:len(trimmed):len(trimmed)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	return rest[:idx+len(nl)], rest[idx+len(closing):], true, nil
}

// Parse splits content and decodes its front matter.
func Parse(content []byte) (Document, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Document{}, err
	}

	fields, err := ParseYAML(raw)
	if err != nil {
		return Document{}, err
	}
	return Document{Raw: raw, Fields: fields, Body: body, Had: had}, nil
}

// ParseYAML decodes raw YAML front matter (without delimiters) into a map.
func ParseYAML(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
