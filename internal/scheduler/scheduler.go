// Package scheduler triggers the price check job on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/pricewatch/internal/logger"
)

// Runner is the job invoked on each tick.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler wraps a cron instance with a single @every entry. The job itself
// is stateless between runs; all state lives in the database.
type Scheduler struct {
	logger   logger.Logger
	runner   Runner
	interval time.Duration
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a scheduler that runs runner every interval.
func New(log logger.Logger, runner Runner, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger:   log,
		runner:   runner,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the interval entry and starts the cron loop. The first run
// happens one interval after start, matching cron @every semantics.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)

	_, err := s.cron.AddFunc(spec, func() {
		if runErr := s.runner.Run(s.ctx); runErr != nil {
			s.logger.Error("Scheduled price check failed", logger.Error(runErr))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule price check: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", logger.Duration("interval", s.interval))
	return nil
}

// Stop cancels the job context and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}
