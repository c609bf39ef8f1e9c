package repositories

import (
	"context"
	"time"

	"github.com/nexavault/lockin_backend/internal/core/domain"
)

// PlanReader defines read operations for the lock-in plan catalog.
type PlanReader interface {
	// FindPlanByID retrieves a specific plan by its unique identifier.
	FindPlanByID(ctx context.Context, planID string) (*domain.LockinPlan, error)

	// ListPlans retrieves all active plans in the catalog.
	ListPlans(ctx context.Context) ([]domain.LockinPlan, error)
}

// PlanWriter defines write operations for the lock-in plan catalog.
type PlanWriter interface {
	// SavePlan persists a new plan.
	SavePlan(ctx context.Context, plan domain.LockinPlan) error

	// UpdatePlan updates an existing plan's details.
	UpdatePlan(ctx context.Context, plan domain.LockinPlan) error

	// DeactivatePlan marks a plan as deleted from the catalog.
	// Existing lock-ins keep their snapshots and are unaffected.
	DeactivatePlan(ctx context.Context, planID string, userID string, now time.Time) error
}

// PlanRepository combines all plan-related repository interfaces.
type PlanRepository interface {
	PlanReader
	PlanWriter
}
