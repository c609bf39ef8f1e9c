package services

import (
	"context"

	"github.com/nexavault/lockin_backend/internal/core/domain"
	"github.com/nexavault/lockin_backend/internal/dto"
)

// LockinSvcFacade defines the lock-in ledger and maturity resolver operations.
type LockinSvcFacade interface {
	// CreateLockin commits principal from the caller's wallet into a plan.
	// Fails with apperrors.ErrInsufficientBalance or apperrors.ErrInvalidPlan;
	// the wallet debit and the lock-in insert are atomic.
	CreateLockin(ctx context.Context, req dto.CreateLockinRequest, callerUserID string) (*domain.Lockin, error)

	// ListLockinsByUser returns a user's lock-ins ordered by start date descending.
	ListLockinsByUser(ctx context.Context, userID string, callerUserID string) ([]domain.Lockin, error)

	// GetLockinByID returns a single lock-in or apperrors.ErrNotFound.
	GetLockinByID(ctx context.Context, lockinID string, callerUserID string) (*domain.Lockin, error)

	// AddToWallet resolves a matured lock-in by crediting its principal back
	// to the wallet. Daily profit was already paid out during accrual, so
	// only the principal moves. Returns the updated wallet.
	AddToWallet(ctx context.Context, lockinID string, userID string, callerUserID string) (*domain.Wallet, error)

	// Relock resolves a matured lock-in by rolling its principal into a new
	// lock-in on the given plan, without touching the wallet balance. Returns
	// the successor lock-in and the caller's wallet as it stands after the roll.
	Relock(ctx context.Context, lockinID string, userID string, newPlanID string, callerUserID string) (*domain.Lockin, *domain.Wallet, error)
}
