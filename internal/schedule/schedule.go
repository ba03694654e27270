// Package schedule runs the attack suite on a cron cadence. A clean run is
// routine; a run where any attack succeeds means a protection regressed and
// is logged loudly enough to page on.
package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"inferguard/internal/domain"
)

// Runner is the slice of the attack suite the scheduler needs.
type Runner interface {
	Run(ctx context.Context, ident domain.Identity) *domain.SuiteResult
}

// Scheduler manages the recurring suite probe.
type Scheduler struct {
	cron   *cron.Cron
	suite  Runner
	spec   string
	ident  domain.Identity
	logger *slog.Logger
}

// NewScheduler creates a scheduler that runs the suite on the given cron
// spec under the given caller identity.
func NewScheduler(suite Runner, spec, caller string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		suite:  suite,
		spec:   spec,
		ident:  domain.Identity{Caller: caller},
		logger: logger.With("component", "scheduler"),
	}
}

// Start registers the probe and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.probe); err != nil {
		return fmt.Errorf("invalid probe schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("probe scheduler started", "schedule", s.spec)
	return nil
}

// Stop gracefully stops the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("probe scheduler stopped")
}

func (s *Scheduler) probe() {
	result := s.suite.Run(context.Background(), s.ident)
	if result.Successes > 0 {
		s.logger.Warn("scheduled probe found working attacks",
			"run_id", result.RunID,
			"successes", result.Successes,
			"total", result.Total)
		return
	}
	s.logger.Info("scheduled probe clean",
		"run_id", result.RunID,
		"total", result.Total)
}
