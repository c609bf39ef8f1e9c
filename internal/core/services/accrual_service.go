package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	"github.com/nexavault/lockin_backend/internal/core/domain"
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/middleware"
	"github.com/nexavault/lockin_backend/internal/platform/email"
)

// systemUserID stamps rows written by scheduled jobs rather than a request.
const systemUserID = "00000000-0000-0000-0000-000000000000"

// accrualService runs the periodic profit accrual and completion sweeps.
type accrualService struct {
	lockinRepo portsrepo.LockinRepository
	userRepo   portsrepo.UserReader
	notifier   email.Sender
}

// NewAccrualService creates a new AccrualService.
func NewAccrualService(lockinRepo portsrepo.LockinRepository, userRepo portsrepo.UserReader, notifier email.Sender) portssvc.AccrualSvcFacade {
	return &accrualService{
		lockinRepo: lockinRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

var _ portssvc.AccrualSvcFacade = (*accrualService)(nil)

// RunDailyAccrual credits daily profit to every ACTIVE lock-in not yet
// credited for now's UTC calendar day. Each lock-in is one transaction; a
// failure on one is counted and skipped so the rest of the batch proceeds.
func (s *accrualService) RunDailyAccrual(ctx context.Context, now time.Time) (portssvc.AccrualRunSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now = now.UTC()
	runDate := now.Truncate(24 * time.Hour)
	summary := portssvc.AccrualRunSummary{RunDate: runDate}

	due, err := s.lockinRepo.ListAccrualDue(ctx, runDate)
	if err != nil {
		logger.Error("Failed to list lockins due for accrual", slog.String("error", err.Error()))
		return summary, fmt.Errorf("failed to list lockins due for accrual: %w", err)
	}

	logger.Info("Accrual run starting",
		slog.Time("run_date", runDate),
		slog.Int("due", len(due)),
	)

	for i := range due {
		outcome := s.accrueOne(ctx, &due[i], runDate, now)
		switch outcome {
		case accrualApplied:
			summary.Processed++
		case accrualCompleted:
			summary.Processed++
			summary.Completed++
		case accrualSkipped:
			summary.Skipped++
		case accrualFailed:
			summary.Failed++
		}
	}

	logger.Info("Accrual run finished",
		slog.Time("run_date", runDate),
		slog.Int("processed", summary.Processed),
		slog.Int("completed", summary.Completed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

type accrualOutcome int

const (
	accrualApplied accrualOutcome = iota
	accrualCompleted
	accrualSkipped
	accrualFailed
)

// accrueOne applies a single lock-in's daily credit. Panics are contained so
// a bad row cannot take down the whole run.
func (s *accrualService) accrueOne(ctx context.Context, lockin *domain.Lockin, runDate time.Time, now time.Time) (outcome accrualOutcome) {
	logger := middleware.GetLoggerFromCtx(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while accruing lockin",
				slog.String("lockin_id", lockin.LockinID),
				slog.Any("panic", r),
			)
			outcome = accrualFailed
		}
	}()

	if lockin.LastAccrualDate != nil && !lockin.LastAccrualDate.UTC().Truncate(24*time.Hour).Before(runDate) {
		return accrualSkipped
	}

	dailyProfit := lockin.DailyProfit()
	completes := !now.Before(lockin.EndDate)

	profit := domain.ProfitTransaction{
		ProfitID:    uuid.NewString(),
		LockinID:    &lockin.LockinID,
		UserID:      lockin.UserID,
		Quantity:    dailyProfit,
		AccrualDate: runDate,
		CreatedAt:   now,
	}
	credit := domain.WalletTransaction{
		TxnID:     uuid.NewString(),
		UserID:    lockin.UserID,
		Amount:    dailyProfit,
		Direction: domain.WalletCredit,
		Kind:      domain.TxnDailyProfit,
		LockinID:  &lockin.LockinID,
		CreatedAt: now,
	}

	if err := s.lockinRepo.ApplyDailyAccrual(ctx, *lockin, profit, credit, completes); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Another run already credited this day.
			return accrualSkipped
		}
		logger.Error("Failed to accrue lockin",
			slog.String("error", err.Error()),
			slog.String("lockin_id", lockin.LockinID),
		)
		return accrualFailed
	}

	if completes {
		s.notifyMatured(ctx, lockin)
		return accrualCompleted
	}
	return accrualApplied
}

// notifyMatured emails the owner that a lock-in matured. Best effort only;
// the accrual transaction has already committed.
func (s *accrualService) notifyMatured(ctx context.Context, lockin *domain.Lockin) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, lockin.UserID)
	if err != nil {
		logger.Warn("Could not load user for maturity notice",
			slog.String("error", err.Error()),
			slog.String("lockin_id", lockin.LockinID),
		)
		return
	}
	if err := s.notifier.SendLockinMatured(user.Email, user.Username, lockin.Name, lockin.PrincipalAmount.String()); err != nil {
		logger.Warn("Failed to send maturity notice",
			slog.String("error", err.Error()),
			slog.String("lockin_id", lockin.LockinID),
		)
	}
}

// SweepCompleted marks overdue ACTIVE lock-ins COMPLETED without waiting for
// the next accrual tick.
func (s *accrualService) SweepCompleted(ctx context.Context, now time.Time) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	n, err := s.lockinRepo.MarkCompletedDue(ctx, now.UTC(), systemUserID)
	if err != nil {
		logger.Error("Completion sweep failed", slog.String("error", err.Error()))
		return 0, fmt.Errorf("completion sweep failed: %w", err)
	}
	if n > 0 {
		logger.Info("Completion sweep finished", slog.Int64("transitioned", n))
	}
	return n, nil
}
