package rating

import (
	"fmt"
	"math"
)

// Input is a rating value as handed to the formatter. It is one of Whole,
// Fractional or Literal.
type Input interface {
	isInput()
}

// Whole is an integer rating. Zero means the film was abandoned.
type Whole int

// Fractional is a rating that is rendered with a trailing half glyph.
type Fractional float64

// Literal is a value that is passed through unchanged.
type Literal string

func (Whole) isInput()      {}
func (Fractional) isInput() {}
func (Literal) isInput()    {}

// InputOf inspects the dynamic type of v. Signed and unsigned integers become
// Whole, floats become Fractional and strings become Literal.
func InputOf(v any) (Input, error) {
	switch n := v.(type) {
	case Whole, Fractional, Literal:
		return n.(Input), nil
	case int:
		return Whole(n), nil
	case int8:
		return Whole(n), nil
	case int16:
		return Whole(n), nil
	case int32:
		return Whole(n), nil
	case int64:
		if n > math.MaxInt || n < math.MinInt {
			return nil, invalidInput("parse rating: integer out of range", "int64")
		}
		return Whole(n), nil
	case uint:
		return wholeFromUnsigned(uint64(n), "uint")
	case uint8:
		return Whole(n), nil
	case uint16:
		return Whole(n), nil
	case uint32:
		return wholeFromUnsigned(uint64(n), "uint32")
	case uint64:
		return wholeFromUnsigned(n, "uint64")
	case float32:
		return Fractional(n), nil
	case float64:
		return Fractional(n), nil
	case string:
		return Literal(n), nil
	default:
		typeName := fmt.Sprintf("%T", v)
		return nil, invalidInput(
			fmt.Sprintf("parse rating: unsupported input type %s, must be an integer, float or string", typeName),
			typeName,
		)
	}
}

func wholeFromUnsigned(n uint64, typeName string) (Input, error) {
	if n > math.MaxInt {
		return nil, invalidInput("parse rating: integer out of range", typeName)
	}
	return Whole(n), nil
}
