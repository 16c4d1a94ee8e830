package commands

import (
	"fmt"
	"math"
	"strconv"

	"git.home.luguber.info/inful/filmshelf/internal/rating"
)

// FormatCmd implements the 'format' command.
type FormatCmd struct {
	Value string `arg:"" help:"Rating to render: an integer, a decimal, or text passed through unchanged"`
}

func (f *FormatCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, true)
	if err != nil {
		return err
	}
	out, err := formatterFor(cfg).Format(ParseInput(f.Value))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.Stdout, out)
	return err
}

// ParseInput classifies a command-line argument: integers are whole ratings,
// finite decimals are fractional ratings, everything else is literal text.
func ParseInput(s string) rating.Input {
	if n, err := strconv.Atoi(s); err == nil {
		return rating.Whole(n)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return rating.Fractional(v)
	}
	return rating.Literal(s)
}
