package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/nccfarm/internal/config"
	"github.com/mamadbah2/nccfarm/internal/metrics"
	"github.com/mamadbah2/nccfarm/internal/session"
)

const (
	jobTimeout    = 2 * time.Minute
	sweepSchedule = "@every 1h"
)

// AlertSender delivers the daily alert digest.
type AlertSender interface {
	Send(ctx context.Context) (string, error)
}

// SessionSweeper drops idle sessions.
type SessionSweeper interface {
	Sweep(maxIdle time.Duration) int
	Len() int
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	alerts   AlertSender
	sessions SessionSweeper
	cfg      config.Config
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.Config, alerts AlertSender, sessions SessionSweeper, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Alerts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Alerts.Timezone, err)
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DiscardLogger)),
	)

	return &Scheduler{
		cron:     c,
		alerts:   alerts,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("alerts", s.cfg.Alerts.CronSchedule), zap.String("timezone", s.cfg.Alerts.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.Alerts.CronSchedule, s.sendAlerts); err != nil {
		return fmt.Errorf("schedule alert digest %q: %w", s.cfg.Alerts.CronSchedule, err)
	}
	if s.sessions != nil {
		if _, err := s.cron.AddFunc(sweepSchedule, s.sweepSessions); err != nil {
			return fmt.Errorf("schedule session sweep: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendAlerts() {
	s.logger.Info("building alert digest")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.alerts.Send(ctx); err != nil {
		s.logger.Error("failed to send alert digest", zap.Error(err))
	}
}

func (s *Scheduler) sweepSessions() {
	// Remembered tokens outlive the base TTL, so keep their state as long.
	removed := s.sessions.Sweep(s.cfg.Session.TTL * session.RememberFactor)
	metrics.SetActiveSessions(s.sessions.Len())
	if removed > 0 {
		s.logger.Info("idle sessions swept", zap.Int("removed", removed))
	}
}
