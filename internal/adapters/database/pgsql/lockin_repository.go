package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	"github.com/nexavault/lockin_backend/internal/core/domain"
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
)

type PgxLockinRepository struct {
	pool *pgxpool.Pool
}

// NewPgxLockinRepository creates a new repository for the lock-in ledger.
func NewPgxLockinRepository(pool *pgxpool.Pool) portsrepo.LockinRepository {
	return &PgxLockinRepository{pool: pool}
}

var _ portsrepo.LockinRepository = (*PgxLockinRepository)(nil)

const lockinColumns = `lockin_id, user_id, plan_id, name, principal_amount, snapshot_duration_days, snapshot_daily_rate_bps, start_date, end_date, status, accrued_profit_total, is_processed, last_accrual_date, version, created_at, created_by, last_updated_at, last_updated_by`

func scanLockin(row pgx.Row) (*domain.Lockin, error) {
	var l domain.Lockin
	err := row.Scan(
		&l.LockinID,
		&l.UserID,
		&l.PlanID,
		&l.Name,
		&l.PrincipalAmount,
		&l.SnapshotDurationDays,
		&l.SnapshotDailyRateBps,
		&l.StartDate,
		&l.EndDate,
		&l.Status,
		&l.AccruedProfitTotal,
		&l.IsProcessed,
		&l.LastAccrualDate,
		&l.Version,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// insertLockinTx inserts a lock-in row inside an open transaction.
func insertLockinTx(ctx context.Context, tx pgx.Tx, l domain.Lockin) error {
	query := `
		INSERT INTO lockins (lockin_id, user_id, plan_id, name, principal_amount, snapshot_duration_days, snapshot_daily_rate_bps, start_date, end_date, status, accrued_profit_total, is_processed, last_accrual_date, version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, query,
		l.LockinID,
		l.UserID,
		l.PlanID,
		l.Name,
		l.PrincipalAmount,
		l.SnapshotDurationDays,
		l.SnapshotDailyRateBps,
		l.StartDate,
		l.EndDate,
		l.Status,
		l.AccruedProfitTotal,
		l.IsProcessed,
		l.LastAccrualDate,
		l.Version,
		l.CreatedAt,
		l.CreatedBy,
		l.LastUpdatedAt,
		l.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: lockin with ID %s already exists", apperrors.ErrDuplicate, l.LockinID)
		}
		return fmt.Errorf("failed to insert lockin %s: %w", l.LockinID, err)
	}
	return nil
}

// nextLockinLabelTx assigns the user's next sequential display label. Callers
// must already hold the user's wallet row lock in the same transaction, which
// serializes concurrent inserts for the user so labels never repeat.
func nextLockinLabelTx(ctx context.Context, tx pgx.Tx, userID string) (string, error) {
	var count int64
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM lockins WHERE user_id = $1;`, userID).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count lockins for user %s: %w", userID, err)
	}
	return fmt.Sprintf("Lock-In %d", count+1), nil
}

// lockinRowState is the subset of columns re-read under FOR UPDATE to verify
// preconditions inside a transaction.
type lockinRowState struct {
	Status          domain.LockinStatus
	IsProcessed     bool
	Version         int64
	LastAccrualDate *time.Time
}

func lockLockinRow(ctx context.Context, tx pgx.Tx, lockinID string) (*lockinRowState, error) {
	query := `
		SELECT status, is_processed, version, last_accrual_date
		FROM lockins
		WHERE lockin_id = $1
		FOR UPDATE;
	`
	var st lockinRowState
	err := tx.QueryRow(ctx, query, lockinID).Scan(&st.Status, &st.IsProcessed, &st.Version, &st.LastAccrualDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock lockin row %s: %w", lockinID, err)
	}
	return &st, nil
}

// FindLockinByID retrieves a lock-in by its ID.
func (r *PgxLockinRepository) FindLockinByID(ctx context.Context, lockinID string) (*domain.Lockin, error) {
	query := `SELECT ` + lockinColumns + ` FROM lockins WHERE lockin_id = $1;`

	lockin, err := scanLockin(r.pool.QueryRow(ctx, query, lockinID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lockin by ID %s: %w", lockinID, err)
	}
	return lockin, nil
}

// ListLockinsByUser retrieves all lock-ins for a user, most recent start date first.
func (r *PgxLockinRepository) ListLockinsByUser(ctx context.Context, userID string) ([]domain.Lockin, error) {
	query := `SELECT ` + lockinColumns + ` FROM lockins WHERE user_id = $1 ORDER BY start_date DESC;`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lockins for user %s: %w", userID, err)
	}
	defer rows.Close()

	lockins := []domain.Lockin{}
	for rows.Next() {
		lockin, err := scanLockin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lockin row for user %s: %w", userID, err)
		}
		lockins = append(lockins, *lockin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lockin rows for user %s: %w", userID, err)
	}
	return lockins, nil
}

// CountActiveByPlan returns how many non-terminal lock-ins reference a plan.
func (r *PgxLockinRepository) CountActiveByPlan(ctx context.Context, planID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM lockins WHERE plan_id = $1 AND status IN ('ACTIVE', 'COMPLETED');`
	if err := r.pool.QueryRow(ctx, query, planID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active lockins for plan %s: %w", planID, err)
	}
	return count, nil
}

// ListAccrualDue retrieves ACTIVE lock-ins not yet credited for the given day.
func (r *PgxLockinRepository) ListAccrualDue(ctx context.Context, accrualDate time.Time) ([]domain.Lockin, error) {
	query := `
		SELECT ` + lockinColumns + `
		FROM lockins
		WHERE status = 'ACTIVE'
		  AND (last_accrual_date IS NULL OR last_accrual_date < $1)
		ORDER BY start_date;
	`
	rows, err := r.pool.Query(ctx, query, accrualDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query accrual-due lockins: %w", err)
	}
	defer rows.Close()

	lockins := []domain.Lockin{}
	for rows.Next() {
		lockin, err := scanLockin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accrual-due lockin row: %w", err)
		}
		lockins = append(lockins, *lockin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accrual-due lockin rows: %w", err)
	}
	return lockins, nil
}

// CreateLockinWithDebit inserts a new ACTIVE lock-in and debits the user's
// wallet by its principal within one DB transaction. The sequential display
// label is assigned under the wallet row lock and written back onto lockin.
func (r *PgxLockinRepository) CreateLockinWithDebit(ctx context.Context, lockin *domain.Lockin, debit domain.WalletTransaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Lock the wallet row and verify the balance covers the principal.
	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE;`, lockin.UserID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: wallet for user %s", apperrors.ErrNotFound, lockin.UserID)
		}
		return fmt.Errorf("failed to lock wallet for user %s: %w", lockin.UserID, err)
	}
	if balance.LessThan(lockin.PrincipalAmount) {
		return fmt.Errorf("%w: balance %s is less than principal %s", apperrors.ErrInsufficientBalance, balance.String(), lockin.PrincipalAmount.String())
	}

	label, err := nextLockinLabelTx(ctx, tx, lockin.UserID)
	if err != nil {
		return err
	}
	lockin.Name = label

	var balanceAfter decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE wallets
		SET balance = balance - $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1
		RETURNING balance;
	`, lockin.UserID, lockin.PrincipalAmount, lockin.CreatedAt, lockin.CreatedBy).Scan(&balanceAfter)
	if err != nil {
		return fmt.Errorf("failed to debit wallet for user %s: %w", lockin.UserID, err)
	}

	if err := insertLockinTx(ctx, tx, *lockin); err != nil {
		return err
	}

	debit.BalanceAfter = balanceAfter
	if err := insertWalletTxnTx(ctx, tx, debit); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit lockin creation %s: %w", lockin.LockinID, err)
	}
	return nil
}

// ApplyDailyAccrual appends the profit record, bumps the lock-in's accrued
// total and credits the wallet, all in one DB transaction per lock-in.
func (r *PgxLockinRepository) ApplyDailyAccrual(ctx context.Context, lockin domain.Lockin, profit domain.ProfitTransaction, credit domain.WalletTransaction, completes bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	st, err := lockLockinRow(ctx, tx, lockin.LockinID)
	if err != nil {
		return err
	}
	if st.Status != domain.LockinActive {
		return fmt.Errorf("%w: lockin %s is %s, expected ACTIVE", apperrors.ErrConflict, lockin.LockinID, st.Status)
	}
	if st.Version != lockin.Version {
		return fmt.Errorf("%w: lockin %s version is %d, expected %d", apperrors.ErrConflict, lockin.LockinID, st.Version, lockin.Version)
	}
	if st.LastAccrualDate != nil && !st.LastAccrualDate.Before(profit.AccrualDate) {
		return fmt.Errorf("%w: lockin %s already accrued for %s", apperrors.ErrDuplicate, lockin.LockinID, profit.AccrualDate.Format("2006-01-02"))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profit_transactions (profit_id, lockin_id, user_id, quantity, accrual_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, profit.ProfitID, profit.LockinID, profit.UserID, profit.Quantity, profit.AccrualDate, profit.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// uq_profit_lockin_day: another run credited this day first.
			return fmt.Errorf("%w: lockin %s already accrued for %s", apperrors.ErrDuplicate, lockin.LockinID, profit.AccrualDate.Format("2006-01-02"))
		}
		return fmt.Errorf("failed to insert profit transaction for lockin %s: %w", lockin.LockinID, err)
	}

	status := domain.LockinActive
	if completes {
		status = domain.LockinCompleted
	}
	tag, err := tx.Exec(ctx, `
		UPDATE lockins
		SET accrued_profit_total = accrued_profit_total + $2,
		    last_accrual_date = $3,
		    status = $4,
		    version = version + 1,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE lockin_id = $1 AND version = $7;
	`, lockin.LockinID, profit.Quantity, profit.AccrualDate, status, profit.CreatedAt, credit.UserID, lockin.Version)
	if err != nil {
		return fmt.Errorf("failed to update lockin %s during accrual: %w", lockin.LockinID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lockin %s changed during accrual", apperrors.ErrConflict, lockin.LockinID)
	}

	balanceAfter, err := creditWalletTx(ctx, tx, credit.UserID, credit.Amount, credit.UserID, credit.CreatedAt)
	if err != nil {
		return err
	}

	credit.BalanceAfter = balanceAfter
	if err := insertWalletTxnTx(ctx, tx, credit); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit accrual for lockin %s: %w", lockin.LockinID, err)
	}
	return nil
}

// MarkCompletedDue transitions every overdue ACTIVE lock-in to COMPLETED.
func (r *PgxLockinRepository) MarkCompletedDue(ctx context.Context, now time.Time, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lockins
		SET status = 'COMPLETED', version = version + 1, last_updated_at = $1, last_updated_by = $2
		WHERE status = 'ACTIVE' AND end_date <= $1;
	`, now, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark completed lockins: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ResolveToWallet marks a COMPLETED lock-in PROCESSED and credits its
// principal back to the wallet, atomically.
func (r *PgxLockinRepository) ResolveToWallet(ctx context.Context, lockin domain.Lockin, payout domain.WalletTransaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Wallet row first, lock-in row second: same order as creation and
	// relock, so concurrent resolvers queue instead of deadlocking.
	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE;`, payout.UserID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: wallet for user %s", apperrors.ErrNotFound, payout.UserID)
		}
		return fmt.Errorf("failed to lock wallet for user %s: %w", payout.UserID, err)
	}

	if err := markProcessedTx(ctx, tx, lockin, payout.CreatedAt); err != nil {
		return err
	}

	balanceAfter, err := creditWalletTx(ctx, tx, payout.UserID, payout.Amount, payout.UserID, payout.CreatedAt)
	if err != nil {
		return err
	}

	payout.BalanceAfter = balanceAfter
	if err := insertWalletTxnTx(ctx, tx, payout); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit resolution of lockin %s: %w", lockin.LockinID, err)
	}
	return nil
}

// Relock marks a COMPLETED lock-in PROCESSED and inserts its successor in the
// same transaction. No wallet movement: principal rolls over. The wallet row
// is still locked so the successor's label is assigned race-free.
func (r *PgxLockinRepository) Relock(ctx context.Context, old domain.Lockin, next *domain.Lockin) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE;`, next.UserID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: wallet for user %s", apperrors.ErrNotFound, next.UserID)
		}
		return fmt.Errorf("failed to lock wallet for user %s: %w", next.UserID, err)
	}

	if err := markProcessedTx(ctx, tx, old, next.CreatedAt); err != nil {
		return err
	}

	label, err := nextLockinLabelTx(ctx, tx, next.UserID)
	if err != nil {
		return err
	}
	next.Name = label

	if err := insertLockinTx(ctx, tx, *next); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit relock of lockin %s: %w", old.LockinID, err)
	}
	return nil
}

// markProcessedTx re-checks maturity preconditions under a row lock and
// transitions the lock-in to PROCESSED.
func markProcessedTx(ctx context.Context, tx pgx.Tx, lockin domain.Lockin, now time.Time) error {
	st, err := lockLockinRow(ctx, tx, lockin.LockinID)
	if err != nil {
		return err
	}
	if st.IsProcessed {
		return fmt.Errorf("%w: lockin %s", apperrors.ErrAlreadyProcessed, lockin.LockinID)
	}
	if st.Status != domain.LockinCompleted {
		return fmt.Errorf("%w: lockin %s is %s", apperrors.ErrNotMatured, lockin.LockinID, st.Status)
	}
	if st.Version != lockin.Version {
		return fmt.Errorf("%w: lockin %s version is %d, expected %d", apperrors.ErrConflict, lockin.LockinID, st.Version, lockin.Version)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE lockins
		SET status = 'PROCESSED', is_processed = TRUE, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE lockin_id = $1 AND version = $4;
	`, lockin.LockinID, now, lockin.UserID, lockin.Version)
	if err != nil {
		return fmt.Errorf("failed to mark lockin %s processed: %w", lockin.LockinID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lockin %s changed during resolution", apperrors.ErrConflict, lockin.LockinID)
	}
	return nil
}
