package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of builds to show (0 for all)" default:"10"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, false)
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return ferrors.ConfigError("build history is disabled").
			WithContext("hint", "set paths.history in the configuration").
			Build()
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tBUILD\tREVISION\tOUTCOME\tPAGES\tDOCUMENTS\tDURATION\tERROR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			e.StartedAt.Format(time.RFC3339), e.BuildID, shortRevision(e.Revision), e.Outcome,
			e.Pages, e.Documents, e.Duration.Round(time.Millisecond), e.Error)
	}
	return tw.Flush()
}

func shortRevision(rev string) string {
	if rev == "" {
		return "-"
	}
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}
