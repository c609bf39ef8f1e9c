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
	"github.com/nexavault/lockin_backend/internal/dto"
	"github.com/nexavault/lockin_backend/internal/middleware"
)

// planService provides lock-in plan catalog operations.
type planService struct {
	planRepo   portsrepo.PlanRepository
	lockinRepo portsrepo.LockinReader
}

// NewPlanService creates a new PlanService.
func NewPlanService(planRepo portsrepo.PlanRepository, lockinRepo portsrepo.LockinReader) portssvc.PlanSvcFacade {
	return &planService{
		planRepo:   planRepo,
		lockinRepo: lockinRepo,
	}
}

var _ portssvc.PlanSvcFacade = (*planService)(nil)

// ListPlans returns all active plans.
func (s *planService) ListPlans(ctx context.Context) ([]domain.LockinPlan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	plans, err := s.planRepo.ListPlans(ctx)
	if err != nil {
		logger.Error("Failed to list plans from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// GetPlanByID returns a single plan.
func (s *planService) GetPlanByID(ctx context.Context, planID string) (*domain.LockinPlan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	plan, err := s.planRepo.FindPlanByID(ctx, planID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find plan by ID", slog.String("error", err.Error()), slog.String("plan_id", planID))
		}
		return nil, err
	}
	return plan, nil
}

// CreatePlan validates and persists a new plan.
func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest, creatorUserID string) (*domain.LockinPlan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.DurationDays < 1 {
		return nil, fmt.Errorf("%w: durationDays must be at least 1", apperrors.ErrValidation)
	}
	if req.DailyRateBps < 0 || req.DailyRateBps > 10000 {
		return nil, fmt.Errorf("%w: dailyRateBps must be between 0 and 10000", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	plan := domain.LockinPlan{
		PlanID:       uuid.NewString(),
		Name:         req.Name,
		DurationDays: req.DurationDays,
		DailyRateBps: req.DailyRateBps,
		Description:  req.Description,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.planRepo.SavePlan(ctx, plan); err != nil {
		logger.Error("Failed to save plan", slog.String("error", err.Error()), slog.String("plan_id", plan.PlanID))
		return nil, err
	}

	logger.Info("Plan created successfully", slog.String("plan_id", plan.PlanID), slog.String("name", plan.Name))
	return &plan, nil
}

// UpdatePlan applies partial updates to an existing plan. The change affects
// only lock-ins created afterwards; running ones keep their snapshots.
func (s *planService) UpdatePlan(ctx context.Context, planID string, req dto.UpdatePlanRequest, userID string) (*domain.LockinPlan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	plan, err := s.planRepo.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		plan.Name = *req.Name
		updated = true
	}
	if req.DurationDays != nil {
		if *req.DurationDays < 1 {
			return nil, fmt.Errorf("%w: durationDays must be at least 1", apperrors.ErrValidation)
		}
		plan.DurationDays = *req.DurationDays
		updated = true
	}
	if req.DailyRateBps != nil {
		if *req.DailyRateBps < 0 || *req.DailyRateBps > 10000 {
			return nil, fmt.Errorf("%w: dailyRateBps must be between 0 and 10000", apperrors.ErrValidation)
		}
		plan.DailyRateBps = *req.DailyRateBps
		updated = true
	}
	if req.Description != nil {
		plan.Description = *req.Description
		updated = true
	}

	if !updated {
		return plan, nil
	}

	plan.LastUpdatedAt = time.Now().UTC()
	plan.LastUpdatedBy = userID

	if err := s.planRepo.UpdatePlan(ctx, *plan); err != nil {
		logger.Error("Failed to update plan", slog.String("error", err.Error()), slog.String("plan_id", planID))
		return nil, err
	}

	logger.Info("Plan updated successfully", slog.String("plan_id", planID))
	return plan, nil
}

// DeletePlan removes a plan from the catalog. Snapshot semantics protect
// existing lock-ins, so deletion is always permitted, but the admin is told
// when active lock-ins still reference the plan.
func (s *planService) DeletePlan(ctx context.Context, planID string, userID string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	activeCount, err := s.lockinRepo.CountActiveByPlan(ctx, planID)
	if err != nil {
		logger.Error("Failed to count active lockins for plan", slog.String("error", err.Error()), slog.String("plan_id", planID))
		return false, fmt.Errorf("failed to count active lockins: %w", err)
	}

	if err := s.planRepo.DeactivatePlan(ctx, planID, userID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate plan", slog.String("error", err.Error()), slog.String("plan_id", planID))
		}
		return false, err
	}

	referenced := activeCount > 0
	logger.Info("Plan deleted", slog.String("plan_id", planID), slog.Bool("referenced_by_active", referenced), slog.Int64("active_lockins", activeCount))
	return referenced, nil
}
