package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	"github.com/nexavault/lockin_backend/internal/core/domain"
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/dto"
	"github.com/nexavault/lockin_backend/internal/middleware"
)

// minPrincipal is the smallest amount a lock-in may be opened with.
var minPrincipal = decimal.RequireFromString("0.01")

// lockinService provides the lock-in ledger and maturity resolver operations.
type lockinService struct {
	lockinRepo portsrepo.LockinRepository
	planRepo   portsrepo.PlanReader
	walletRepo portsrepo.WalletReader
	userRepo   portsrepo.UserReader
}

// NewLockinService creates a new LockinService.
func NewLockinService(lockinRepo portsrepo.LockinRepository, planRepo portsrepo.PlanReader, walletRepo portsrepo.WalletReader, userRepo portsrepo.UserReader) portssvc.LockinSvcFacade {
	return &lockinService{
		lockinRepo: lockinRepo,
		planRepo:   planRepo,
		walletRepo: walletRepo,
		userRepo:   userRepo,
	}
}

var _ portssvc.LockinSvcFacade = (*lockinService)(nil)

// snapshotFromPlan builds a new ACTIVE lock-in carrying the plan's current
// duration and rate. EndDate is fixed here and never changes afterwards. The
// sequential display label is assigned by the repository inside the insert
// transaction.
func snapshotFromPlan(plan *domain.LockinPlan, userID string, principal decimal.Decimal, now time.Time) domain.Lockin {
	return domain.Lockin{
		LockinID:             uuid.NewString(),
		UserID:               userID,
		PlanID:               plan.PlanID,
		PrincipalAmount:      principal,
		SnapshotDurationDays: plan.DurationDays,
		SnapshotDailyRateBps: plan.DailyRateBps,
		StartDate:            now,
		EndDate:              now.AddDate(0, 0, plan.DurationDays),
		Status:               domain.LockinActive,
		AccruedProfitTotal:   decimal.Zero,
		IsProcessed:          false,
		Version:              1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

// CreateLockin commits principal from the caller's wallet into a plan.
func (s *lockinService) CreateLockin(ctx context.Context, req dto.CreateLockinRequest, callerUserID string) (*domain.Lockin, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := ensureSelfOrAdmin(ctx, s.userRepo, req.UserID, callerUserID); err != nil {
		return nil, err
	}
	if req.Amount.LessThan(minPrincipal) {
		return nil, fmt.Errorf("%w: amount must be at least %s", apperrors.ErrValidation, minPrincipal.String())
	}

	plan, err := s.planRepo.FindPlanByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: plan %s", apperrors.ErrInvalidPlan, req.PlanID)
		}
		logger.Error("Failed to resolve plan for lockin creation", slog.String("error", err.Error()), slog.String("plan_id", req.PlanID))
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}
	if !plan.IsActive {
		return nil, fmt.Errorf("%w: plan %s is no longer offered", apperrors.ErrInvalidPlan, req.PlanID)
	}

	now := time.Now().UTC()
	lockin := snapshotFromPlan(plan, req.UserID, req.Amount, now)

	debit := domain.WalletTransaction{
		TxnID:     uuid.NewString(),
		UserID:    req.UserID,
		Amount:    req.Amount,
		Direction: domain.WalletDebit,
		Kind:      domain.TxnLockinDeposit,
		LockinID:  &lockin.LockinID,
		CreatedAt: now,
	}

	if err := s.lockinRepo.CreateLockinWithDebit(ctx, &lockin, debit); err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Error("Failed to create lockin", slog.String("error", err.Error()), slog.String("lockin_id", lockin.LockinID))
		}
		return nil, err
	}

	logger.Info("Lockin created successfully",
		slog.String("lockin_id", lockin.LockinID),
		slog.String("plan_id", plan.PlanID),
		slog.String("principal", req.Amount.String()),
	)
	return &lockin, nil
}

// ListLockinsByUser returns a user's lock-ins, most recent start date first.
func (s *lockinService) ListLockinsByUser(ctx context.Context, userID string, callerUserID string) ([]domain.Lockin, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := ensureSelfOrAdmin(ctx, s.userRepo, userID, callerUserID); err != nil {
		return nil, err
	}

	lockins, err := s.lockinRepo.ListLockinsByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list lockins", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list lockins: %w", err)
	}
	return lockins, nil
}

// GetLockinByID returns a single lock-in owned by the caller.
func (s *lockinService) GetLockinByID(ctx context.Context, lockinID string, callerUserID string) (*domain.Lockin, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lockin, err := s.lockinRepo.FindLockinByID(ctx, lockinID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find lockin", slog.String("error", err.Error()), slog.String("lockin_id", lockinID))
		}
		return nil, err
	}
	if err := ensureSelfOrAdmin(ctx, s.userRepo, lockin.UserID, callerUserID); err != nil {
		return nil, err
	}
	return lockin, nil
}

// checkMaturityPreconditions validates the shared resolver preconditions.
// They are re-checked under a row lock inside the repository, so a race
// between two resolver calls still surfaces ErrAlreadyProcessed cleanly.
func (s *lockinService) checkMaturityPreconditions(ctx context.Context, lockin *domain.Lockin, userID string, callerUserID string) error {
	if lockin.UserID != userID {
		return fmt.Errorf("%w: lock-in belongs to another user", apperrors.ErrForbidden)
	}
	if err := ensureSelfOrAdmin(ctx, s.userRepo, userID, callerUserID); err != nil {
		return err
	}
	if lockin.IsProcessed {
		return fmt.Errorf("%w: lockin %s", apperrors.ErrAlreadyProcessed, lockin.LockinID)
	}
	if lockin.Status != domain.LockinCompleted {
		return fmt.Errorf("%w: lockin %s is %s", apperrors.ErrNotMatured, lockin.LockinID, lockin.Status)
	}
	return nil
}

// AddToWallet resolves a matured lock-in by crediting its principal back to
// the wallet. Daily profit was already paid out during accrual.
func (s *lockinService) AddToWallet(ctx context.Context, lockinID string, userID string, callerUserID string) (*domain.Wallet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lockin, err := s.lockinRepo.FindLockinByID(ctx, lockinID)
	if err != nil {
		return nil, err
	}
	if err := s.checkMaturityPreconditions(ctx, lockin, userID, callerUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payout := domain.WalletTransaction{
		TxnID:     uuid.NewString(),
		UserID:    userID,
		Amount:    lockin.PrincipalAmount,
		Direction: domain.WalletCredit,
		Kind:      domain.TxnLockinPayout,
		LockinID:  &lockin.LockinID,
		CreatedAt: now,
	}

	if err := s.lockinRepo.ResolveToWallet(ctx, *lockin, payout); err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyProcessed) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to resolve lockin to wallet", slog.String("error", err.Error()), slog.String("lockin_id", lockinID))
		}
		return nil, err
	}

	wallet, err := s.walletRepo.FindWalletByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load wallet after resolution", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load updated wallet: %w", err)
	}

	logger.Info("Lockin resolved to wallet",
		slog.String("lockin_id", lockinID),
		slog.String("principal", lockin.PrincipalAmount.String()),
		slog.String("balance", wallet.Balance.String()),
	)
	return wallet, nil
}

// Relock resolves a matured lock-in by rolling its principal into a new
// lock-in on the given plan. The wallet balance is untouched; the wallet is
// still returned so callers see the account state alongside the successor.
func (s *lockinService) Relock(ctx context.Context, lockinID string, userID string, newPlanID string, callerUserID string) (*domain.Lockin, *domain.Wallet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lockin, err := s.lockinRepo.FindLockinByID(ctx, lockinID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkMaturityPreconditions(ctx, lockin, userID, callerUserID); err != nil {
		return nil, nil, err
	}

	plan, err := s.planRepo.FindPlanByID(ctx, newPlanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: plan %s", apperrors.ErrInvalidPlan, newPlanID)
		}
		logger.Error("Failed to resolve plan for relock", slog.String("error", err.Error()), slog.String("plan_id", newPlanID))
		return nil, nil, fmt.Errorf("failed to resolve plan: %w", err)
	}
	if !plan.IsActive {
		return nil, nil, fmt.Errorf("%w: plan %s is no longer offered", apperrors.ErrInvalidPlan, newPlanID)
	}

	now := time.Now().UTC()
	next := snapshotFromPlan(plan, userID, lockin.PrincipalAmount, now)

	if err := s.lockinRepo.Relock(ctx, *lockin, &next); err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyProcessed) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to relock lockin", slog.String("error", err.Error()), slog.String("lockin_id", lockinID))
		}
		return nil, nil, err
	}

	wallet, err := s.walletRepo.FindWalletByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load wallet after relock", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	logger.Info("Lockin relocked successfully",
		slog.String("old_lockin_id", lockinID),
		slog.String("new_lockin_id", next.LockinID),
		slog.String("plan_id", plan.PlanID),
	)
	return &next, wallet, nil
}
