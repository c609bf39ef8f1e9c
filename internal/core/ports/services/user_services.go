package services

import (
	"context"

	"github.com/nexavault/lockin_backend/internal/core/domain"
	"github.com/nexavault/lockin_backend/internal/dto"
)

// UserSvcFacade defines user account operations.
type UserSvcFacade interface {
	// CreateUser registers a new user and their empty wallet.
	CreateUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// GetUserByID returns a user or apperrors.ErrNotFound.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername returns a user by login name or apperrors.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
