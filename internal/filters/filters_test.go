package filters

import (
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/filmshelf/internal/rating"
)

func movies() []any {
	return []any{
		map[string]any{"title": "Alien", "rating": 4, "director": "Ridley Scott"},
		map[string]any{"title": "Heat", "rating": 2, "director": "Michael Mann"},
		map[string]any{"title": "Watchlist", "rating": 5, "director": nil},
	}
}

func render(t *testing.T, set *Set, page *Page, body string, data any) (string, error) {
	t.Helper()
	tpl, err := template.New("test").Funcs(set.FuncMap(page)).Parse(body)
	require.NoError(t, err)

	var b strings.Builder
	err = tpl.Execute(&b, data)
	return b.String(), err
}

func TestParseRating(t *testing.T) {
	set := New(rating.New(rating.DefaultGlyphs()))

	out, err := render(t, set, nil, `{{ parse_rating .a }}|{{ parse_rating .b }}|{{ parse_rating .c }}|{{ parse_rating .d }}`, map[string]any{
		"a": 0, "b": 3, "c": 3.5, "d": "already formatted",
	})
	require.NoError(t, err)
	assert.Equal(t, "Gave Up|★★★|★★★½|already formatted", out)
}

func TestParseRating_InvalidInputFailsTemplate(t *testing.T) {
	set := New(rating.New(rating.DefaultGlyphs()))

	_, err := render(t, set, nil, `{{ parse_rating .a }}`, map[string]any{"a": true})
	require.Error(t, err)
	assert.ErrorIs(t, err, rating.ErrInvalidInput)
}

func TestRatingAverage(t *testing.T) {
	set := New(rating.New(rating.DefaultGlyphs()))

	out, err := render(t, set, nil, `{{ rating_average .movies }}`, map[string]any{"movies": movies()})
	require.NoError(t, err)
	assert.Equal(t, "3.00", out)

	_, err = render(t, set, nil, `{{ rating_average .movies }}`, map[string]any{"movies": []any{}})
	assert.ErrorIs(t, err, rating.ErrEmptyInput)
}

func TestRatingChart(t *testing.T) {
	set := New(rating.New(rating.DefaultGlyphs()))
	data := map[string]any{"movies": []any{
		map[string]any{"rating": 1, "director": "A"},
		map[string]any{"rating": 1, "director": "B"},
		map[string]any{"rating": 2, "director": "C"},
		map[string]any{"rating": 3.5, "director": "D"},
	}}

	out, err := render(t, set, nil, `{{ range rating_chart .movies }}[{{ .Label }}:{{ .Bar }}]{{ end }}`, data)
	require.NoError(t, err)
	assert.Equal(t, "[1:**][2:*][:*]", out)
}

func TestItagFix(t *testing.T) {
	set := New(rating.New(rating.DefaultGlyphs()))
	page := &Page{Path: "_movies/dune.md", Name: "dune.md"}

	out, err := render(t, set, page, `{{ itag_fix "poster" }}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "_movies/poster.jpg", out)

	out, err = render(t, set, &Page{Path: "index.md", Name: "index.md"}, `{{ itag_fix "hero" }}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "hero.jpg", out)

	_, err = render(t, set, nil, `{{ itag_fix "hero" }}`, nil)
	assert.Error(t, err)
}

func TestPageDirOnlyTrimsTrailingName(t *testing.T) {
	p := Page{Path: "dune.md/reviews/dune.md", Name: "dune.md"}
	assert.Equal(t, "dune.md/reviews/", p.Dir())
}

func TestMarkdownifyThenStripHeadings(t *testing.T) {
	set := New(rating.New(rating.DefaultGlyphs()))

	out, err := render(t, set, nil, `{{ .body | markdownify | strip_headings }}`, map[string]any{
		"body": "# Dune\n\nA desert planet.\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>A desert planet.</p>", strings.TrimSpace(out))
}

func TestMarkdownifyHighlightsCode(t *testing.T) {
	src := "```go\nfunc main() {}\n```\n"

	out, err := New(rating.New(rating.DefaultGlyphs())).Markdownify(src)
	require.NoError(t, err)
	assert.Contains(t, out, `style="`)
	assert.Contains(t, out, "main")
	assert.NotContains(t, out, "language-go")

	plain, err := New(rating.New(rating.DefaultGlyphs()), WithHighlightStyle("")).Markdownify(src)
	require.NoError(t, err)
	assert.Equal(t, "<pre><code class=\"language-go\">func main() {}\n</code></pre>\n", plain)
}
