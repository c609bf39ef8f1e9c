package repositories

import (
	"context"

	"github.com/nexavault/lockin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProfitReader defines read operations over the append-only profit ledger.
// Writes happen exclusively through LockinWriter.ApplyDailyAccrual.
type ProfitReader interface {
	// ListProfitsByUser retrieves a user's profit transactions, newest first.
	ListProfitsByUser(ctx context.Context, userID string) ([]domain.ProfitTransaction, error)

	// SumProfitByUser returns the total of all profit quantities a user has earned.
	SumProfitByUser(ctx context.Context, userID string) (decimal.Decimal, error)
}

// ProfitRepository combines all profit repository interfaces.
type ProfitRepository interface {
	ProfitReader
}
