package watch

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// refresher ticks a channel on a fixed interval so Run can force a rebuild
// even when no file event arrived.
type refresher struct {
	scheduler gocron.Scheduler
	ticks     chan struct{}
}

func newRefresher(interval time.Duration) (*refresher, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	r := &refresher{scheduler: s, ticks: make(chan struct{}, 1)}
	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.tick),
		gocron.WithName("refresh-build"),
	); err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create refresh job: %w", err)
	}
	s.Start()
	return r, nil
}

// tick never blocks; a refresh already pending absorbs the new one.
func (r *refresher) tick() {
	select {
	case r.ticks <- struct{}{}:
	default:
	}
}

func (r *refresher) stop() error {
	return r.scheduler.Shutdown()
}
