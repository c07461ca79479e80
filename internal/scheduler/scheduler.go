// Package scheduler triggers dashboard reloads on a cron schedule and when a
// local workbook changes on disk.
package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/errors"
	"roadmapboard/internal/logging"
)

// Reloader is the part of app.Dashboard the triggers need
type Reloader interface {
	Reload(ctx context.Context, trigger string) (*roadmap.Snapshot, error)
}

// Scheduler runs reloads on a standard five-field cron expression
type Scheduler struct {
	cron     *cron.Cron
	reloader Reloader
	trigger  string
	logger   *zap.Logger

	mu      sync.Mutex
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler. An invalid schedule is a CONFIG_INVALID error.
func New(schedule string, reloader Reloader, trigger string, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reloader: reloader,
		trigger:  trigger,
		logger:   logger.Named("scheduler"),
		ctx:      ctx,
		cancel:   cancel,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		cancel()
		return nil, errors.ConfigInvalid("invalid reload schedule " + schedule + ": " + err.Error())
	}
	return s, nil
}

func (s *Scheduler) run() {
	s.logger.Debug("Scheduled reload")
	if _, err := s.reloader.Reload(s.ctx, s.trigger); err != nil {
		s.logger.Warn("Scheduled reload failed", logging.ErrorFields(err)...)
	}
}

// Start begins running the schedule in the background
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	s.logger.Info("Reload schedule started", zap.Int("entries", len(s.cron.Entries())))
}

// Stop halts the schedule, cancels any running reload and waits for it to
// return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.mu.Unlock()

	s.cancel()
	if !started {
		return nil
	}

	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
