package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LockinStatus indicates the lifecycle state of a lock-in.
// Transitions only move forward: ACTIVE -> COMPLETED -> PROCESSED.
// CANCELLED is a terminal alternate reachable from ACTIVE only.
type LockinStatus string

const (
	LockinActive    LockinStatus = "ACTIVE"
	LockinCompleted LockinStatus = "COMPLETED"
	LockinProcessed LockinStatus = "PROCESSED"
	LockinCancelled LockinStatus = "CANCELLED"
)

// Lockin is a single fixed-term deposit instance belonging to a user.
// Plan duration and rate are snapshotted at creation; EndDate is fixed at
// creation and never mutated.
type Lockin struct {
	LockinID             string          `json:"lockinID"`
	UserID               string          `json:"userID"`
	PlanID               string          `json:"planID"`
	Name                 string          `json:"name"` // generated sequential label, e.g. "Lock-In 3"
	PrincipalAmount      decimal.Decimal `json:"principalAmount"`
	SnapshotDurationDays int             `json:"snapshotDurationDays"`
	SnapshotDailyRateBps int64           `json:"snapshotDailyRateBps"`
	StartDate            time.Time       `json:"startDate"`
	EndDate              time.Time       `json:"endDate"`
	Status               LockinStatus    `json:"status"`
	AccruedProfitTotal   decimal.Decimal `json:"accruedProfitTotal"`
	IsProcessed          bool            `json:"isProcessed"`
	LastAccrualDate      *time.Time      `json:"lastAccrualDate,omitempty"` // UTC calendar day of last accrual
	Version              int64           `json:"-"`                         // optimistic concurrency counter
	AuditFields
}

// IsMatured reports whether the lock-in has reached its end date.
func (l *Lockin) IsMatured(now time.Time) bool {
	return !now.Before(l.EndDate)
}

// DailyProfit computes the profit credited per accrual tick:
// principal * snapshotDailyRateBps / 10000.
func (l *Lockin) DailyProfit() decimal.Decimal {
	return l.PrincipalAmount.
		Mul(decimal.NewFromInt(l.SnapshotDailyRateBps)).
		Div(decimal.NewFromInt(10000))
}
