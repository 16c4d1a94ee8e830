package rating

import (
	"fmt"
	"math"
	"strings"
)

// Glyphs are the characters the formatter emits.
type Glyphs struct {
	Full   string `yaml:"full"`
	Half   string `yaml:"half"`
	GaveUp string `yaml:"gave_up"`
	Bar    string `yaml:"bar"`
}

// DefaultGlyphs returns the glyph set used when none is configured.
func DefaultGlyphs() Glyphs {
	return Glyphs{
		Full:   "★",
		Half:   "½",
		GaveUp: "Gave Up",
		Bar:    "*",
	}
}

// MaxStars is the largest rating Format renders; larger ratings are
// InvalidInput.
const MaxStars = 1000

// Formatter renders ratings with a fixed glyph set. The zero value is not
// usable; construct one with New.
type Formatter struct {
	glyphs Glyphs
}

// New returns a Formatter for g. Empty fields fall back to DefaultGlyphs.
func New(g Glyphs) *Formatter {
	def := DefaultGlyphs()
	if g.Full == "" {
		g.Full = def.Full
	}
	if g.Half == "" {
		g.Half = def.Half
	}
	if g.GaveUp == "" {
		g.GaveUp = def.GaveUp
	}
	if g.Bar == "" {
		g.Bar = def.Bar
	}
	return &Formatter{glyphs: g}
}

// Glyphs returns the glyph set in use.
func (f *Formatter) Glyphs() Glyphs {
	return f.glyphs
}

// Format renders in as a star string.
//
//	Whole(0)        -> "Gave Up"
//	Whole(3)        -> "★★★"
//	Fractional(3.5) -> "★★★½"
//	Literal(s)      -> s
//
// A Fractional always ends in the half glyph, including integral values such
// as Fractional(3).
func (f *Formatter) Format(in Input) (string, error) {
	switch v := in.(type) {
	case Whole:
		if v == 0 {
			return f.glyphs.GaveUp, nil
		}
		if v < 0 {
			return "", invalidInput(fmt.Sprintf("parse rating: negative rating %d", int(v)), "int")
		}
		if v > MaxStars {
			return "", invalidInput(fmt.Sprintf("parse rating: rating %d exceeds %d", int(v), MaxStars), "int")
		}
		return strings.Repeat(f.glyphs.Full, int(v)), nil
	case Fractional:
		x := float64(v)
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return "", invalidInput(fmt.Sprintf("parse rating: rating %v out of range", x), "float64")
		}
		if x > MaxStars {
			return "", invalidInput(fmt.Sprintf("parse rating: rating %v exceeds %d", x, MaxStars), "float64")
		}
		return strings.Repeat(f.glyphs.Full, int(math.Floor(x))) + f.glyphs.Half, nil
	case Literal:
		return string(v), nil
	default:
		typeName := fmt.Sprintf("%T", in)
		return "", invalidInput("parse rating: unsupported input type "+typeName, typeName)
	}
}

// FormatValue classifies v with InputOf and formats the result.
func (f *Formatter) FormatValue(v any) (string, error) {
	in, err := InputOf(v)
	if err != nil {
		return "", err
	}
	return f.Format(in)
}

var defaultFormatter = New(DefaultGlyphs())

// Format renders in with the default glyphs.
func Format(in Input) (string, error) {
	return defaultFormatter.Format(in)
}

// FormatValue renders v with the default glyphs.
func FormatValue(v any) (string, error) {
	return defaultFormatter.FormatValue(v)
}
