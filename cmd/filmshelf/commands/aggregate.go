package commands

import (
	"fmt"
	"text/tabwriter"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/filmshelf/internal/rating"
	"git.home.luguber.info/inful/filmshelf/internal/sitedata"
)

// ItemSource selects a list of rated items inside a data file.
type ItemSource struct {
	Data string `short:"d" required:"" help:"YAML or JSON data file holding the items" type:"existingfile"`
	Key  string `short:"k" help:"Dotted path to the item list inside the file (default: document root)"`
}

func (s ItemSource) load() ([]rating.Item, error) {
	doc, err := sitedata.LoadDataFile(s.Data)
	if err != nil {
		return nil, err
	}
	v, ok := sitedata.Lookup(doc, s.Key)
	if !ok {
		return nil, ferrors.NewError(ferrors.CategoryNotFound, "key not found in data file").
			WithContext("file", s.Data).
			WithContext("key", s.Key).
			Build()
	}
	items, err := rating.ItemsFrom(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Data, err)
	}
	return items, nil
}

// AverageCmd implements the 'average' command.
type AverageCmd struct {
	ItemSource `embed:""`
}

func (a *AverageCmd) Run(g *Global, root *CLI) error {
	if _, err := loadConfig(g, root, true); err != nil {
		return err
	}
	items, err := a.load()
	if err != nil {
		return err
	}
	avg, err := rating.Average(items)
	if err != nil {
		return err
	}
	g.Logger.Debug("Computed average", "items", len(items))
	_, err = fmt.Fprintf(g.Stdout, "%.2f\n", avg)
	return err
}

// ChartCmd implements the 'chart' command.
type ChartCmd struct {
	ItemSource `embed:""`
}

func (c *ChartCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, true)
	if err != nil {
		return err
	}
	items, err := c.load()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	for _, b := range formatterFor(cfg).Histogram(items) {
		label := b.Label
		if !b.Labeled {
			label = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, b.Bar)
	}
	return tw.Flush()
}
