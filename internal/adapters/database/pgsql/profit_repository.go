package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nexavault/lockin_backend/internal/core/domain"
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
)

type PgxProfitRepository struct {
	pool *pgxpool.Pool
}

// NewPgxProfitRepository creates a new read-side repository over the profit ledger.
func NewPgxProfitRepository(pool *pgxpool.Pool) portsrepo.ProfitRepository {
	return &PgxProfitRepository{pool: pool}
}

var _ portsrepo.ProfitRepository = (*PgxProfitRepository)(nil)

// ListProfitsByUser retrieves a user's profit transactions, newest first.
func (r *PgxProfitRepository) ListProfitsByUser(ctx context.Context, userID string) ([]domain.ProfitTransaction, error) {
	query := `
		SELECT profit_id, lockin_id, user_id, quantity, accrual_date, created_at
		FROM profit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query profit transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	txns := []domain.ProfitTransaction{}
	for rows.Next() {
		var t domain.ProfitTransaction
		if err := rows.Scan(
			&t.ProfitID,
			&t.LockinID,
			&t.UserID,
			&t.Quantity,
			&t.AccrualDate,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profit transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profit transaction rows: %w", err)
	}
	return txns, nil
}

// SumProfitByUser returns the total profit a user has earned.
func (r *PgxProfitRepository) SumProfitByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM profit_transactions WHERE user_id = $1;`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum profit for user %s: %w", userID, err)
	}
	return sum, nil
}
