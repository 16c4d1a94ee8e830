// Package watch rebuilds the site when its inputs change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/filmshelf/internal/logfields"
	"git.home.luguber.info/inful/filmshelf/internal/metrics"
	"git.home.luguber.info/inful/filmshelf/internal/render"
	"git.home.luguber.info/inful/filmshelf/internal/sitedata"
)

// Builder renders the site. *render.Engine satisfies it.
type Builder interface {
	Build(ctx context.Context) (*render.Report, error)
}

// Watcher runs a build whenever a file under its directories changes.
type Watcher struct {
	dirs     []string
	builder  Builder
	debounce time.Duration
	logger   *slog.Logger
	recorder metrics.Recorder
	onBuild  func(*render.Report, error)
	refresh  time.Duration

	lastFingerprint string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(w *Watcher) {
		if r != nil {
			w.recorder = r
		}
	}
}

// WithRefreshInterval forces a full rebuild every d, regardless of file
// events. Zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.refresh = d
		}
	}
}

// WithBuildHook registers fn to be called after every build attempt.
func WithBuildHook(fn func(*render.Report, error)) Option {
	return func(w *Watcher) { w.onBuild = fn }
}

// New returns a watcher over dirs.
func New(dirs []string, b Builder, opts ...Option) *Watcher {
	w := &Watcher{
		dirs:     dirs,
		builder:  b,
		debounce: 300 * time.Millisecond,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run builds once, then rebuilds after each settled burst of changes until
// ctx is cancelled. Builds that fail are logged and do not stop the watcher.
// Bursts that leave every input byte-identical do not trigger a build.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, dir := range w.dirs {
		if err := addDirsRecursive(fsw, dir); err != nil {
			return err
		}
	}

	var refreshTicks <-chan struct{}
	if w.refresh > 0 {
		r, err := newRefresher(w.refresh)
		if err != nil {
			return err
		}
		defer func() {
			if err := r.stop(); err != nil {
				w.logger.Warn("Failed to stop refresh scheduler", logfields.Error(err))
			}
		}()
		refreshTicks = r.ticks
	}

	w.rebuild(ctx, true)
	w.logger.Info("Watching for changes", logfields.Count(len(w.dirs)))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("Change detected", logfields.File(event.Name), logfields.Event(event.Op.String()))
			if event.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if err := addDirsRecursive(fsw, event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", logfields.Error(err))

		case <-pending:
			pending = nil
			w.rebuild(ctx, false)

		case <-refreshTicks:
			w.logger.Debug("Scheduled refresh")
			w.rebuild(ctx, true)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context, force bool) {
	fp, err := sitedata.Fingerprint(w.dirs...)
	if err != nil {
		w.logger.Warn("Failed to fingerprint inputs", logfields.Error(err))
	} else if !force && fp == w.lastFingerprint {
		w.logger.Debug("Inputs unchanged, skipping build")
		w.recorder.IncSkippedRebuild()
		return
	}

	report, buildErr := w.builder.Build(ctx)
	if buildErr != nil {
		w.logger.Error("Build failed", logfields.Error(buildErr))
	} else if err == nil {
		w.lastFingerprint = fp
	}
	if w.onBuild != nil {
		w.onBuild(report, buildErr)
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	// Editor swap and backup files.
	if base == "" || base[0] == '.' || base[len(base)-1] == '~' {
		return false
	}
	return true
}

// addDirsRecursive adds dir and its subdirectories. A missing dir is skipped.
func addDirsRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
