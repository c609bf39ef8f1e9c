package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/pkg/config"
)

// Scheduler manages the periodic accrual and completion jobs.
type Scheduler struct {
	cron    *cron.Cron
	accrual portssvc.AccrualSvcFacade
	logger  *slog.Logger
}

// NewScheduler creates a scheduler running in UTC with seconds precision and
// registers the accrual tick and the completion sweep from the configured
// cron specs.
func NewScheduler(cfg *config.Config, accrual portssvc.AccrualSvcFacade, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron:    c,
		accrual: accrual,
		logger:  logger.With(slog.String("component", "scheduler")),
	}

	if _, err := c.AddFunc(cfg.AccrualCronSpec, s.runAccrual); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(cfg.CompletionCronSpec, s.runCompletionSweep); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) runAccrual() {
	ctx := context.Background()
	summary, err := s.accrual.RunDailyAccrual(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("Accrual tick failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Accrual tick done",
		slog.Time("run_date", summary.RunDate),
		slog.Int("processed", summary.Processed),
		slog.Int("completed", summary.Completed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
}

func (s *Scheduler) runCompletionSweep() {
	ctx := context.Background()
	n, err := s.accrual.SweepCompleted(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("Completion sweep failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Completion sweep done", slog.Int64("transitioned", n))
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
