package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	"github.com/nexavault/lockin_backend/internal/core/domain"
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
)

type PgxPlanRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPlanRepository creates a new repository for lock-in plan data.
func NewPgxPlanRepository(pool *pgxpool.Pool) portsrepo.PlanRepository {
	return &PgxPlanRepository{pool: pool}
}

var _ portsrepo.PlanRepository = (*PgxPlanRepository)(nil)

const planColumns = `plan_id, name, duration_days, daily_rate_bps, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanPlan(row pgx.Row) (*domain.LockinPlan, error) {
	var p domain.LockinPlan
	err := row.Scan(
		&p.PlanID,
		&p.Name,
		&p.DurationDays,
		&p.DailyRateBps,
		&p.Description,
		&p.IsActive,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePlan inserts a new plan.
func (r *PgxPlanRepository) SavePlan(ctx context.Context, plan domain.LockinPlan) error {
	query := `
		INSERT INTO lockin_plans (plan_id, name, duration_days, daily_rate_bps, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		plan.PlanID,
		plan.Name,
		plan.DurationDays,
		plan.DailyRateBps,
		plan.Description,
		plan.IsActive,
		plan.CreatedAt,
		plan.CreatedBy,
		plan.LastUpdatedAt,
		plan.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: plan with ID %s already exists", apperrors.ErrDuplicate, plan.PlanID)
		}
		return fmt.Errorf("failed to save plan %s: %w", plan.PlanID, err)
	}
	return nil
}

// FindPlanByID retrieves a plan by its ID.
func (r *PgxPlanRepository) FindPlanByID(ctx context.Context, planID string) (*domain.LockinPlan, error) {
	query := `SELECT ` + planColumns + ` FROM lockin_plans WHERE plan_id = $1;`

	plan, err := scanPlan(r.pool.QueryRow(ctx, query, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find plan by ID %s: %w", planID, err)
	}
	return plan, nil
}

// ListPlans retrieves all active plans ordered by duration.
func (r *PgxPlanRepository) ListPlans(ctx context.Context) ([]domain.LockinPlan, error) {
	query := `SELECT ` + planColumns + ` FROM lockin_plans WHERE is_active = TRUE ORDER BY duration_days, created_at;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.LockinPlan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan rows: %w", err)
	}
	return plans, nil
}

// UpdatePlan updates an existing plan's mutable fields.
func (r *PgxPlanRepository) UpdatePlan(ctx context.Context, plan domain.LockinPlan) error {
	query := `
		UPDATE lockin_plans
		SET name = $2, duration_days = $3, daily_rate_bps = $4, description = $5, last_updated_at = $6, last_updated_by = $7
		WHERE plan_id = $1 AND is_active = TRUE;
	`
	tag, err := r.pool.Exec(ctx, query,
		plan.PlanID,
		plan.Name,
		plan.DurationDays,
		plan.DailyRateBps,
		plan.Description,
		plan.LastUpdatedAt,
		plan.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan %s: %w", plan.PlanID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivatePlan marks a plan as deleted from the catalog.
func (r *PgxPlanRepository) DeactivatePlan(ctx context.Context, planID string, userID string, now time.Time) error {
	query := `
		UPDATE lockin_plans
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE plan_id = $1 AND is_active = TRUE;
	`
	tag, err := r.pool.Exec(ctx, query, planID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate plan %s: %w", planID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
