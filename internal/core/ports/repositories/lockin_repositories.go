package repositories

import (
	"context"
	"time"

	"github.com/nexavault/lockin_backend/internal/core/domain"
)

// LockinReader defines read operations for lock-in instances.
type LockinReader interface {
	// FindLockinByID retrieves a specific lock-in by its unique identifier.
	FindLockinByID(ctx context.Context, lockinID string) (*domain.Lockin, error)

	// ListLockinsByUser retrieves all lock-ins for a user, most recent start date first.
	ListLockinsByUser(ctx context.Context, userID string) ([]domain.Lockin, error)

	// CountActiveByPlan returns how many non-terminal lock-ins reference a plan.
	CountActiveByPlan(ctx context.Context, planID string) (int64, error)

	// ListAccrualDue retrieves ACTIVE lock-ins that have not yet been credited
	// for the given UTC calendar day.
	ListAccrualDue(ctx context.Context, accrualDate time.Time) ([]domain.Lockin, error)
}

// LockinWriter defines the atomic write operations of the lock-in ledger.
// Each method is a single database transaction: every listed side effect
// happens together or not at all.
type LockinWriter interface {
	// CreateLockinWithDebit inserts a new ACTIVE lock-in and debits the user's
	// wallet by its principal, writing the wallet audit record. The sequential
	// display label is assigned inside the transaction, under the wallet row
	// lock, and written back onto the passed lock-in. Returns
	// apperrors.ErrInsufficientBalance when the wallet cannot cover the
	// principal; no partial state is left behind.
	CreateLockinWithDebit(ctx context.Context, lockin *domain.Lockin, debit domain.WalletTransaction) error

	// ApplyDailyAccrual appends the profit transaction, increments the
	// lock-in's accrued total, credits the wallet and writes the wallet audit
	// record. The lock-in row is locked and its version asserted; a mismatch
	// returns apperrors.ErrConflict, a same-day duplicate accrual returns
	// apperrors.ErrDuplicate. When completes is true the lock-in also
	// transitions to COMPLETED.
	ApplyDailyAccrual(ctx context.Context, lockin domain.Lockin, profit domain.ProfitTransaction, credit domain.WalletTransaction, completes bool) error

	// MarkCompletedDue transitions every ACTIVE lock-in whose end date has
	// passed to COMPLETED and returns how many rows changed.
	MarkCompletedDue(ctx context.Context, now time.Time, userID string) (int64, error)

	// ResolveToWallet marks a COMPLETED lock-in PROCESSED and credits the
	// wallet with its principal, writing the wallet audit record. The row is
	// locked and re-checked inside the transaction; ErrConflict on version
	// mismatch, ErrAlreadyProcessed if another request resolved it first.
	ResolveToWallet(ctx context.Context, lockin domain.Lockin, payout domain.WalletTransaction) error

	// Relock marks a COMPLETED lock-in PROCESSED and inserts its successor in
	// the same transaction. The wallet balance is not touched: principal rolls
	// over. The successor's sequential display label is assigned inside the
	// transaction, under the wallet row lock, and written back onto next.
	Relock(ctx context.Context, old domain.Lockin, next *domain.Lockin) error
}

// LockinRepository combines all lock-in repository interfaces.
type LockinRepository interface {
	LockinReader
	LockinWriter
}
