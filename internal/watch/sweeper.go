package watch

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/headlink/internal/augment"
	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/logfields"
	"git.home.luguber.info/inful/headlink/internal/vault"
)

// Sweeper periodically evicts resolution-index entries of documents that were
// deleted or modified.
type Sweeper struct {
	scheduler gocron.Scheduler
	augmenter *augment.Augmenter
	vault     vault.Vault
	logger    *slog.Logger
}

// NewSweeper schedules a sweep of aug against v every interval.
func NewSweeper(aug *augment.Augmenter, v vault.Vault, interval time.Duration, logger *slog.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.RuntimeError("failed to create index sweeper").WithCause(err).Build()
	}

	sw := &Sweeper{scheduler: s, augmenter: aug, vault: v, logger: logger}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { sw.Sweep() }),
		gocron.WithName("resolution-index-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.RuntimeError("failed to schedule index sweep").
			WithCause(err).
			WithContext("interval", interval.String()).
			Build()
	}
	return sw, nil
}

// Start begins the schedule.
func (s *Sweeper) Start() {
	s.logger.Info("Starting index sweeper")
	s.scheduler.Start()
}

// Stop shuts the scheduler down.
func (s *Sweeper) Stop() error {
	s.logger.Info("Stopping index sweeper")
	return s.scheduler.Shutdown()
}

// Sweep runs one eviction pass and returns the number of documents evicted.
func (s *Sweeper) Sweep() int {
	n := s.augmenter.Sweep(func(key vault.DocumentKey) (time.Time, bool) {
		f, ok := s.vault.ResolveFile(string(key))
		return f.ModTime, ok
	})
	if n > 0 {
		s.logger.Info("Swept resolution index", logfields.Count(n))
	}
	return n
}
