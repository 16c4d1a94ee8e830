package filters

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
)

// StripHeadings removes every h1-h6 element, including its content, from an
// HTML fragment. The rest of the fragment is re-serialized.
func StripHeadings(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "strip_headings: parse fragment").Build()
	}

	var b strings.Builder
	for _, n := range nodes {
		if isHeading(n) {
			continue
		}
		removeHeadings(n)
		if err := html.Render(&b, n); err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryTemplate, "strip_headings: render fragment").Build()
		}
	}
	return b.String(), nil
}

func removeHeadings(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isHeading(c) {
			n.RemoveChild(c)
		} else {
			removeHeadings(c)
		}
		c = next
	}
}

func isHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}
