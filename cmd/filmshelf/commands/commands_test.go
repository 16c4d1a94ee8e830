package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/filmshelf/internal/rating"
	"git.home.luguber.info/inful/filmshelf/internal/sitetest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// run executes the CLI and returns exit code, stdout and stderr.
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "filmshelf.yaml")
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		in   string
		want rating.Input
	}{
		{"0", rating.Whole(0)},
		{"3", rating.Whole(3)},
		{"-2", rating.Whole(-2)},
		{"3.5", rating.Fractional(3.5)},
		{"4.0", rating.Fractional(4)},
		{"NaN", rating.Literal("NaN")},
		{"★★★", rating.Literal("★★★")},
		{"", rating.Literal("")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInput(tt.in))
		})
	}
}

func TestFormatCommand(t *testing.T) {
	cfg := missingConfig(t)
	tests := []struct {
		arg  string
		want string
	}{
		{"0", "Gave Up\n"},
		{"3", "★★★\n"},
		{"3.5", "★★★½\n"},
		{"already formatted", "already formatted\n"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			code, out, stderr := run(t, "-c", cfg, "format", tt.arg)
			require.Equal(t, 0, code, stderr)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFormatCommand_ConfiguredGlyphs(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "filmshelf.yaml")
	writeFile(t, cfg, "glyphs:\n  full: \"x\"\n  half: \"+\"\n")

	code, out, stderr := run(t, "-c", cfg, "format", "2.5")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "xx+\n", out)
}

func TestFormatCommand_Negative(t *testing.T) {
	code, _, stderr := run(t, "-c", missingConfig(t), "format", "--", "-1")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Error:")
}

func TestFormatCommand_TooLarge(t *testing.T) {
	for _, arg := range []string{"1e19", "1001", "99999999999999999999"} {
		t.Run(arg, func(t *testing.T) {
			code, out, stderr := run(t, "-c", missingConfig(t), "format", arg)
			assert.Equal(t, 2, code)
			assert.Empty(t, out)
			assert.Contains(t, stderr, "exceeds")
		})
	}
}

func TestAverageCommand(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "movies.yml")
	writeFile(t, data, `
reviews:
  - rating: 4
    director: A
  - rating: 2
    director: B
  - rating: 5
    director: null
`)

	code, out, stderr := run(t, "average", "--data", data, "--key", "reviews")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "3.00\n", out)
}

func TestAverageCommand_UsesConfiguredLogging(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "movies.yml")
	writeFile(t, data, "- rating: 4\n  director: A\n")
	cfg := filepath.Join(dir, "filmshelf.yaml")
	writeFile(t, cfg, "logging:\n  level: debug\n  format: json\n")

	code, out, stderr := run(t, "-c", cfg, "average", "--data", data)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "4.00\n", out)
	assert.Contains(t, stderr, `"msg":"Computed average"`)
}

func TestAverageCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yml")
	writeFile(t, empty, "- rating: 5\n")

	t.Run("no rated items", func(t *testing.T) {
		code, out, _ := run(t, "average", "--data", empty)
		assert.Equal(t, 2, code)
		assert.Empty(t, out)
	})

	t.Run("unknown key", func(t *testing.T) {
		code, _, _ := run(t, "average", "--data", empty, "--key", "reviews")
		assert.Equal(t, 3, code)
	})

	t.Run("malformed rating", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yml")
		writeFile(t, bad, "- rating: great\n  director: A\n")
		code, _, _ := run(t, "average", "--data", bad)
		assert.Equal(t, 2, code)
	})

	t.Run("missing data file", func(t *testing.T) {
		code, _, stderr := run(t, "average", "--data", filepath.Join(dir, "absent.yml"))
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr, "filmshelf: error:")
	})
}

func TestChartCommand(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "movies.yml")
	writeFile(t, data, `
- {rating: 1, director: A}
- {rating: 1, director: B}
- {rating: 2, director: C}
- {rating: 3.5, director: D}
- {rating: 5}
`)

	code, out, stderr := run(t, "-c", missingConfig(t), "chart", "--data", data)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "1  **\n2  *\n-  *\n", out)
}

func TestInitCommand(t *testing.T) {
	cfg := missingConfig(t)

	code, out, stderr := run(t, "-c", cfg, "init")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Wrote configuration to")
	require.FileExists(t, cfg)

	code, _, stderr = run(t, "-c", cfg, "init")
	assert.NotEqual(t, 0, code)
	assert.Contains(t, stderr, "already exists")

	code, _, stderr = run(t, "-c", cfg, "init", "--force")
	assert.Equal(t, 0, code, stderr)
}

func TestBuildCommand(t *testing.T) {
	site := sitetest.New(t).
		Layout("review.tmpl", `{{ .Page.title }} {{ parse_rating .Page.rating }}`).
		Page("index.tmpl", `{{ rating_average .Site.Data.movies }}`).
		Document("_movies", "Amélie.md", map[string]any{"title": "Amélie", "rating": 4, "director": "Jeunet"}, "Paris.\n")
	cfg := site.Config(`
site:
  title: Film Log
collections:
  - name: movies
    dir: _movies
    layout: review.tmpl
`)

	code, out, stderr := run(t, "-c", cfg, "build")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Rendered 1 pages and 1 documents")

	site.Output("_site").
		AssertFileEquals("index.html", "4.00").
		AssertFileEquals("movies/amelie/index.html", "Amélie ★★★★")

	t.Run("output override", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "public")
		code, _, stderr := run(t, "-c", cfg, "build", "-o", out)
		require.Equal(t, 0, code, stderr)
		sitetest.NewFileAssertions(t, out).AssertFileExists("index.html")
	})
}

func TestBuildCommand_MissingConfig(t *testing.T) {
	code, _, stderr := run(t, "-c", missingConfig(t), "build")
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr, "configuration file not found")
}

func TestHistoryCommand(t *testing.T) {
	site := sitetest.New(t).
		Layout("review.tmpl", `{{ .Page.title }}`).
		Document("_movies", "heat.md", map[string]any{"title": "Heat", "rating": 2.5, "director": "Mann"}, "LA.\n")
	cfg := site.Config(`
paths:
  history: .filmshelf/history.db
collections:
  - name: movies
    dir: _movies
    layout: review.tmpl
`)

	for range 2 {
		code, _, stderr := run(t, "-c", cfg, "build")
		require.Equal(t, 0, code, stderr)
	}
	require.FileExists(t, site.Path(".filmshelf/history.db"))

	code, out, stderr := run(t, "-c", cfg, "history", "-n", "1")
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "STARTED"))
	assert.Contains(t, lines[1], "success")
}

func TestHistoryCommand_Disabled(t *testing.T) {
	cfg := sitetest.New(t).Config("site:\n  title: Film Log\n")

	code, _, stderr := run(t, "-c", cfg, "history")
	assert.Equal(t, 7, code)
	assert.Contains(t, stderr, "build history is disabled")
}
