package dto

import (
	"time"

	"github.com/nexavault/lockin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLockinRequest defines the data needed to open a lock-in.
type CreateLockinRequest struct {
	UserID string          `json:"userId" binding:"required"`
	PlanID string          `json:"planId" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required,decimalgt0"`
}

// ResolveLockinRequest is the body for the add-to-wallet maturity action.
type ResolveLockinRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// RelockRequest is the body for the relock maturity action.
type RelockRequest struct {
	UserID string `json:"userId" binding:"required"`
	PlanID string `json:"planId" binding:"required"`
}

// LockinResponse defines the data returned for a lock-in, including the
// denormalized plan fields the dashboard displays.
type LockinResponse struct {
	LockinID           string              `json:"lockinID"`
	UserID             string              `json:"userID"`
	PlanID             string              `json:"planID"`
	Name               string              `json:"name"`
	PrincipalAmount    decimal.Decimal     `json:"principalAmount"`
	DurationDays       int                 `json:"durationDays"`
	DailyRateBps       int64               `json:"dailyRateBps"`
	StartDate          time.Time           `json:"startDate"`
	EndDate            time.Time           `json:"endDate"`
	Status             domain.LockinStatus `json:"status"`
	AccruedProfitTotal decimal.Decimal     `json:"accruedProfitTotal"`
	IsProcessed        bool                `json:"isProcessed"`
	LastAccrualDate    *time.Time          `json:"lastAccrualDate,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
}

// ResolveLockinResponse carries the updated wallet after a maturity resolution.
type ResolveLockinResponse struct {
	User WalletResponse `json:"user"`
}

// RelockResponse carries the caller's wallet and the replacement lock-in
// created by a relock. The balance is unchanged, principal rolled over.
type RelockResponse struct {
	User      WalletResponse `json:"user"`
	NewLockin LockinResponse `json:"newLockin"`
}

// ToLockinResponse converts a domain.Lockin to its response DTO.
func ToLockinResponse(l *domain.Lockin) LockinResponse {
	return LockinResponse{
		LockinID:           l.LockinID,
		UserID:             l.UserID,
		PlanID:             l.PlanID,
		Name:               l.Name,
		PrincipalAmount:    l.PrincipalAmount,
		DurationDays:       l.SnapshotDurationDays,
		DailyRateBps:       l.SnapshotDailyRateBps,
		StartDate:          l.StartDate,
		EndDate:            l.EndDate,
		Status:             l.Status,
		AccruedProfitTotal: l.AccruedProfitTotal,
		IsProcessed:        l.IsProcessed,
		LastAccrualDate:    l.LastAccrualDate,
		CreatedAt:          l.CreatedAt,
	}
}

// ToListLockinResponse converts a slice of lock-ins to response DTOs.
func ToListLockinResponse(lockins []domain.Lockin) []LockinResponse {
	res := make([]LockinResponse, len(lockins))
	for i := range lockins {
		res[i] = ToLockinResponse(&lockins[i])
	}
	return res
}
