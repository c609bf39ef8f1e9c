package repositories

import (
	"context"

	"github.com/nexavault/lockin_backend/internal/core/domain"
)

// WalletReader defines read operations for wallet balances and their audit trail.
type WalletReader interface {
	// FindWalletByUserID retrieves a user's wallet.
	FindWalletByUserID(ctx context.Context, userID string) (*domain.Wallet, error)

	// ListWalletTransactions retrieves a user's wallet audit records, newest first.
	ListWalletTransactions(ctx context.Context, userID string, limit int) ([]domain.WalletTransaction, error)
}

// WalletWriter defines write operations for wallets.
// Balance movement never happens here: credits and debits are side effects of
// the atomic lock-in ledger operations.
type WalletWriter interface {
	// SaveWallet persists a new wallet row.
	SaveWallet(ctx context.Context, wallet domain.Wallet) error
}

// WalletRepository combines all wallet repository interfaces.
type WalletRepository interface {
	WalletReader
	WalletWriter
}
