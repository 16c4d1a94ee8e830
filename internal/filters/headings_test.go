package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHeadings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single heading",
			input: "<h1>Title</h1><p>Body</p>",
			want:  "<p>Body</p>",
		},
		{
			name:  "every level with attributes",
			input: `<h2 id="a">A</h2><p>x</p><H3 class="b">B</H3><h6>C</h6>`,
			want:  "<p>x</p>",
		},
		{
			name:  "multi-line heading",
			input: "<h2>\nLong\ntitle\n</h2><p>kept</p>",
			want:  "<p>kept</p>",
		},
		{
			name:  "nested heading",
			input: "<div><h3>Cast</h3><span>Sigourney Weaver</span></div>",
			want:  "<div><span>Sigourney Weaver</span></div>",
		},
		{
			name:  "whitespace between blocks survives",
			input: "<p>Intro</p>\n<h2>Sub</h2>\n<p>More</p>",
			want:  "<p>Intro</p>\n\n<p>More</p>",
		},
		{
			name:  "no headings",
			input: "<p>Nothing to strip</p>",
			want:  "<p>Nothing to strip</p>",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripHeadings(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
