package dto

import (
	"time"

	"github.com/nexavault/lockin_backend/internal/core/domain"
)

// CreatePlanRequest defines the data needed to create a new lock-in plan.
type CreatePlanRequest struct {
	Name         string `json:"name" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"required,min=1"`
	DailyRateBps int64  `json:"dailyRateBps" binding:"min=0,max=10000"`
	Description  string `json:"description"`
}

// UpdatePlanRequest defines the data allowed for updating a plan.
// Pointers distinguish zero-value updates from fields not provided.
type UpdatePlanRequest struct {
	Name         *string `json:"name"`
	DurationDays *int    `json:"durationDays" binding:"omitempty,min=1"`
	DailyRateBps *int64  `json:"dailyRateBps" binding:"omitempty,min=0,max=10000"`
	Description  *string `json:"description"`
}

// PlanResponse defines the data returned for a plan.
type PlanResponse struct {
	PlanID        string    `json:"planID"`
	Name          string    `json:"name"`
	DurationDays  int       `json:"durationDays"`
	DailyRateBps  int64     `json:"dailyRateBps"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// DeletePlanResponse reports the outcome of a plan deletion to the admin.
type DeletePlanResponse struct {
	PlanID             string `json:"planID"`
	ReferencedByActive bool   `json:"referencedByActive"`
}

// ToPlanResponse converts a domain.LockinPlan to its response DTO.
func ToPlanResponse(p *domain.LockinPlan) PlanResponse {
	return PlanResponse{
		PlanID:        p.PlanID,
		Name:          p.Name,
		DurationDays:  p.DurationDays,
		DailyRateBps:  p.DailyRateBps,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToListPlanResponse converts a slice of plans to response DTOs.
func ToListPlanResponse(plans []domain.LockinPlan) []PlanResponse {
	res := make([]PlanResponse, len(plans))
	for i := range plans {
		res[i] = ToPlanResponse(&plans[i])
	}
	return res
}
