package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/filmshelf/internal/config"
	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/filmshelf/internal/history"
	"git.home.luguber.info/inful/filmshelf/internal/rating"
	"git.home.luguber.info/inful/filmshelf/internal/render"
	"git.home.luguber.info/inful/filmshelf/internal/version"
)

// Global carries process-wide state shared by all commands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"filmshelf.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Format  FormatCmd  `cmd:"" help:"Render a single rating as stars"`
	Average AverageCmd `cmd:"" help:"Average rating of the items in a data file"`
	Chart   ChartCmd   `cmd:"" help:"Print the rating histogram of the items in a data file"`
	Build   BuildCmd   `cmd:"" help:"Render the site"`
	Watch   WatchCmd   `cmd:"" help:"Render the site and re-render on changes"`
	History HistoryCmd `cmd:"" help:"List recent builds from the build journal"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// Execute parses args, runs the selected command and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	g := &Global{Logger: slog.Default(), Stdout: stdout, Stderr: stderr}

	parser, err := kong.New(&cli,
		kong.Name("filmshelf"),
		kong.Description("Film log site renderer with star-rating template filters."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version.String()},
		kong.Bind(g, &cli),
	)
	if err != nil {
		fmt.Fprintf(stderr, "filmshelf: %v\n", err)
		return 10
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "filmshelf: error: %v\n", err)
		return 2
	}

	if err := ctx.Run(); err != nil {
		return ferrors.NewCLIErrorAdapter(cli.Verbose, g.Logger).WithOutput(stderr).Handle(err)
	}
	return 0
}

// loadConfig loads the configuration and swaps in the configured logger.
// When optional is set and the file does not exist, defaults are used.
func loadConfig(g *Global, root *CLI, optional bool) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		if !optional || !ferrors.HasCategory(err, ferrors.CategoryNotFound) {
			return nil, err
		}
		g.Logger.Debug("No configuration file, using defaults", "path", root.Config)
		if cfg, err = config.Parse(nil); err != nil {
			return nil, err
		}
	}
	g.Logger = cfg.Logging.NewLogger(g.Stderr, root.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func formatterFor(cfg *config.Config) *rating.Formatter {
	return rating.New(cfg.Glyphs)
}

// engineOptions maps the configuration onto render options. A non-empty
// output overrides the configured output directory.
func engineOptions(cfg *config.Config, output string, logger *slog.Logger) render.Options {
	opts := render.Options{
		Root:           cfg.Resolve("."),
		DataDir:        cfg.Resolve(cfg.Paths.Data),
		LayoutsDir:     cfg.Resolve(cfg.Paths.Layouts),
		PagesDir:       cfg.Resolve(cfg.Paths.Pages),
		OutputDir:      cfg.Resolve(cfg.Paths.Output),
		Title:          cfg.Site.Title,
		BaseURL:        cfg.Site.BaseURL,
		Formatter:      formatterFor(cfg),
		HighlightStyle: cfg.Markdown.HighlightStyle,
		Logger:         logger,
	}
	if output != "" {
		opts.OutputDir = output
	}
	for _, c := range cfg.Collections {
		opts.Collections = append(opts.Collections, render.Collection{
			Name:   c.Name,
			Dir:    cfg.Resolve(c.Dir),
			Layout: c.Layout,
			Output: c.Output,
		})
	}
	return opts
}

// openHistory opens the configured build journal, or returns nil when
// paths.history is unset.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if cfg.Paths.History == "" {
		return nil, nil
	}
	path := cfg.Resolve(cfg.Paths.History)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create history directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	return history.Open(path)
}

// withJournal opens the build journal into opts. The returned close func is
// always safe to call.
func withJournal(g *Global, cfg *config.Config, opts *render.Options) (func(), error) {
	store, err := openHistory(cfg)
	if err != nil || store == nil {
		return func() {}, err
	}
	opts.Journal = store
	return func() {
		if err := store.Close(); err != nil {
			g.Logger.Warn("Failed to close build history", "error", err)
		}
	}, nil
}
