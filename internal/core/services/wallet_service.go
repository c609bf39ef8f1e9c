package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	"github.com/nexavault/lockin_backend/internal/core/domain"
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/middleware"
)

const defaultWalletTxnLimit = 50

// walletService provides read access to wallet balances and their audit trail.
type walletService struct {
	walletRepo portsrepo.WalletRepository
	userRepo   portsrepo.UserReader
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo portsrepo.WalletRepository, userRepo portsrepo.UserReader) portssvc.WalletSvcFacade {
	return &walletService{walletRepo: walletRepo, userRepo: userRepo}
}

var _ portssvc.WalletSvcFacade = (*walletService)(nil)

// GetWalletByUserID returns a user's wallet. Callers may only read their own
// unless they are an admin.
func (s *walletService) GetWalletByUserID(ctx context.Context, userID string, callerUserID string) (*domain.Wallet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := ensureSelfOrAdmin(ctx, s.userRepo, userID, callerUserID); err != nil {
		return nil, err
	}

	wallet, err := s.walletRepo.FindWalletByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find wallet", slog.String("error", err.Error()))
		}
		return nil, err
	}
	return wallet, nil
}

// ListTransactions returns a user's wallet audit records, newest first.
func (s *walletService) ListTransactions(ctx context.Context, userID string, limit int, callerUserID string) ([]domain.WalletTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := ensureSelfOrAdmin(ctx, s.userRepo, userID, callerUserID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultWalletTxnLimit
	}

	txns, err := s.walletRepo.ListWalletTransactions(ctx, userID, limit)
	if err != nil {
		logger.Error("Failed to list wallet transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txns, nil
}
