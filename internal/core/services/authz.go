package services

import (
	"context"
	"fmt"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
)

// ensureSelfOrAdmin allows a caller to act on its own userID. Acting on
// another user's resources requires the caller to be an admin.
func ensureSelfOrAdmin(ctx context.Context, userRepo portsrepo.UserReader, userID string, callerUserID string) error {
	if userID == callerUserID {
		return nil
	}
	caller, err := userRepo.FindUserByID(ctx, callerUserID)
	if err != nil {
		return fmt.Errorf("%w: could not verify caller %s", apperrors.ErrForbidden, callerUserID)
	}
	if !caller.IsAdmin {
		return fmt.Errorf("%w: resource belongs to another user", apperrors.ErrForbidden)
	}
	return nil
}
