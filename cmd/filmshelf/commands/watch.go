package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/filmshelf/internal/metrics"
	"git.home.luguber.info/inful/filmshelf/internal/render"
	"git.home.luguber.info/inful/filmshelf/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output      string `short:"o" help:"Output directory (overrides paths.output)" type:"path"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, false)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := engineOptions(cfg, w.Output, g.Logger)
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if w.MetricsAddr != "" {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		stop := serveMetrics(ctx, g, w.MetricsAddr, reg)
		defer stop()
	}
	opts.Recorder = recorder

	closeJournal, err := withJournal(g, cfg, &opts)
	if err != nil {
		return err
	}
	defer closeJournal()

	engine := render.NewEngine(opts)
	watcher := watch.New(engine.Inputs(), engine,
		watch.WithDebounce(cfg.Watch.Debounce),
		watch.WithLogger(g.Logger),
		watch.WithRecorder(recorder),
		watch.WithRefreshInterval(cfg.Watch.RefreshInterval),
	)
	return watcher.Run(ctx)
}

// serveMetrics exposes reg at /metrics until the returned stop func is called.
func serveMetrics(ctx context.Context, g *Global, addr string, reg *prom.Registry) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		g.Logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.Logger.Error("Metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
