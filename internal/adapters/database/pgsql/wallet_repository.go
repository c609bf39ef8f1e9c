package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	"github.com/nexavault/lockin_backend/internal/core/domain"
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
)

type PgxWalletRepository struct {
	pool *pgxpool.Pool
}

// NewPgxWalletRepository creates a new repository for wallet data.
func NewPgxWalletRepository(pool *pgxpool.Pool) portsrepo.WalletRepository {
	return &PgxWalletRepository{pool: pool}
}

var _ portsrepo.WalletRepository = (*PgxWalletRepository)(nil)

// SaveWallet inserts a new wallet row.
func (r *PgxWalletRepository) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	query := `
		INSERT INTO wallets (user_id, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.pool.Exec(ctx, query,
		wallet.UserID,
		wallet.Balance,
		wallet.CreatedAt,
		wallet.CreatedBy,
		wallet.LastUpdatedAt,
		wallet.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save wallet for user %s: %w", wallet.UserID, err)
	}
	return nil
}

// FindWalletByUserID retrieves a user's wallet.
func (r *PgxWalletRepository) FindWalletByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `
		SELECT user_id, balance, created_at, created_by, last_updated_at, last_updated_by
		FROM wallets
		WHERE user_id = $1;
	`
	var w domain.Wallet
	var balance decimal.Decimal
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&w.UserID,
		&balance,
		&w.CreatedAt,
		&w.CreatedBy,
		&w.LastUpdatedAt,
		&w.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find wallet for user %s: %w", userID, err)
	}
	w.Balance = balance
	return &w, nil
}

// ListWalletTransactions retrieves a user's wallet audit records, newest first.
func (r *PgxWalletRepository) ListWalletTransactions(ctx context.Context, userID string, limit int) ([]domain.WalletTransaction, error) {
	query := `
		SELECT txn_id, user_id, amount, direction, kind, lockin_id, balance_after, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	txns := []domain.WalletTransaction{}
	for rows.Next() {
		var t domain.WalletTransaction
		if err := rows.Scan(
			&t.TxnID,
			&t.UserID,
			&t.Amount,
			&t.Direction,
			&t.Kind,
			&t.LockinID,
			&t.BalanceAfter,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wallet transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet transaction rows: %w", err)
	}
	return txns, nil
}

// creditWalletTx moves amount into a wallet inside an open transaction,
// locking the row first, and returns the balance after the credit.
func creditWalletTx(ctx context.Context, tx pgx.Tx, userID string, amount decimal.Decimal, userStampID string, now time.Time) (decimal.Decimal, error) {
	var balanceAfter decimal.Decimal
	query := `
		UPDATE wallets
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1
		RETURNING balance;
	`
	err := tx.QueryRow(ctx, query, userID, amount, now, userStampID).Scan(&balanceAfter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: wallet for user %s", apperrors.ErrNotFound, userID)
		}
		return decimal.Zero, fmt.Errorf("failed to credit wallet for user %s: %w", userID, err)
	}
	return balanceAfter, nil
}

// insertWalletTxnTx writes one wallet audit record inside an open transaction.
func insertWalletTxnTx(ctx context.Context, tx pgx.Tx, txn domain.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (txn_id, user_id, amount, direction, kind, lockin_id, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		txn.TxnID,
		txn.UserID,
		txn.Amount,
		txn.Direction,
		txn.Kind,
		txn.LockinID,
		txn.BalanceAfter,
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert wallet transaction %s: %w", txn.TxnID, err)
	}
	return nil
}
