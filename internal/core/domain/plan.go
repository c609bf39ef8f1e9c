package domain

// LockinPlan is an immutable catalog entry describing a fixed-term deposit product.
// Lockin instances snapshot DurationDays and DailyRateBps at creation, so
// editing or deleting a plan never affects lock-ins already running on it.
type LockinPlan struct {
	PlanID       string `json:"planID"`
	Name         string `json:"name"`
	DurationDays int    `json:"durationDays"`     // > 0
	DailyRateBps int64  `json:"dailyRateBps"`     // basis points, 0..10000
	Description  string `json:"description"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
