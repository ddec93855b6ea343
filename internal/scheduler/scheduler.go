// Package scheduler runs the application's periodic housekeeping.
package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/config"
	"github.com/aeroclubhq/aeroclub/internal/service/auth"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	sessions *auth.SessionManager
	cfg      config.SessionConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SessionConfig, sessions *auth.SessionManager, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("session_sweep", s.cfg.SweepSchedule))

	if _, err := s.cron.AddFunc(s.cfg.SweepSchedule, s.sweepSessions); err != nil {
		s.logger.Error("failed to schedule session sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sweepSessions() {
	removed := s.sessions.Sweep()
	if removed > 0 {
		s.logger.Info("expired sessions removed",
			zap.Int("removed", removed),
			zap.Int("active", s.sessions.Active()))
	}
}
