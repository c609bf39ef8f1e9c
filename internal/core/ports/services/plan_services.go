package services

import (
	"context"

	"github.com/nexavault/lockin_backend/internal/core/domain"
	"github.com/nexavault/lockin_backend/internal/dto"
)

// PlanSvcFacade defines the business operations of the plan catalog.
type PlanSvcFacade interface {
	// ListPlans returns all active plans.
	ListPlans(ctx context.Context) ([]domain.LockinPlan, error)

	// GetPlanByID returns a single plan or apperrors.ErrNotFound.
	GetPlanByID(ctx context.Context, planID string) (*domain.LockinPlan, error)

	// CreatePlan validates and persists a new plan (admin only).
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest, creatorUserID string) (*domain.LockinPlan, error)

	// UpdatePlan applies partial updates to an existing plan (admin only).
	UpdatePlan(ctx context.Context, planID string, req dto.UpdatePlanRequest, userID string) (*domain.LockinPlan, error)

	// DeletePlan removes a plan from the catalog. Existing lock-ins keep their
	// snapshots; the returned flag tells the admin whether active lock-ins
	// still reference the plan.
	DeletePlan(ctx context.Context, planID string, userID string) (referencedByActive bool, err error)
}
