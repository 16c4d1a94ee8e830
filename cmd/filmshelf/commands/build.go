package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/filmshelf/internal/render"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides paths.output)" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, false)
	if err != nil {
		return err
	}
	opts := engineOptions(cfg, b.Output, g.Logger)
	closeJournal, err := withJournal(g, cfg, &opts)
	if err != nil {
		return err
	}
	defer closeJournal()

	report, err := render.NewEngine(opts).Build(context.Background())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.Stdout, "Rendered %d pages and %d documents into %s\n", report.Pages, report.Documents, opts.OutputDir)
	return err
}
