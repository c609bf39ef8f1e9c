package services

import (
	"context"

	"github.com/nexavault/lockin_backend/internal/core/domain"
)

// WalletSvcFacade defines read operations over wallet balances and audit records.
type WalletSvcFacade interface {
	// GetWalletByUserID returns a user's wallet or apperrors.ErrNotFound.
	GetWalletByUserID(ctx context.Context, userID string, callerUserID string) (*domain.Wallet, error)

	// ListTransactions returns a user's wallet audit records, newest first.
	ListTransactions(ctx context.Context, userID string, limit int, callerUserID string) ([]domain.WalletTransaction, error)
}
