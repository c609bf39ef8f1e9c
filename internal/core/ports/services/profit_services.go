package services

import (
	"context"

	"github.com/nexavault/lockin_backend/internal/dto"
)

// ProfitSvcFacade defines the profit reporting operations.
type ProfitSvcFacade interface {
	// GetProfitSummary aggregates a user's profit position: profit still
	// attached to unresolved lock-ins, lifetime total, the transaction list
	// and the timestamp of the most recent credit.
	GetProfitSummary(ctx context.Context, userID string, callerUserID string) (*dto.ProfitSummaryResponse, error)
}
