package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitTransaction is one append-only record per accrual event.
// Immutable once written; the sum of quantities for a lock-in always equals
// that lock-in's AccruedProfitTotal.
type ProfitTransaction struct {
	ProfitID    string          `json:"profitID"`
	LockinID    *string         `json:"lockinID,omitempty"` // nil for non-lockin profit
	UserID      string          `json:"userID"`
	Quantity    decimal.Decimal `json:"quantity"`
	AccrualDate time.Time       `json:"accrualDate"` // UTC calendar day; unique per lock-in
	CreatedAt   time.Time       `json:"createdAt"`
}
