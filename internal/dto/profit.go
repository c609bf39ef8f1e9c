package dto

import (
	"time"

	"github.com/nexavault/lockin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProfitTransactionResponse defines one accrual record.
type ProfitTransactionResponse struct {
	ProfitID    string          `json:"transactionId"`
	LockinID    *string         `json:"lockinID,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	AccrualDate time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProfitSummaryResponse is the payload of GET /profits/:userId.
type ProfitSummaryResponse struct {
	CurrentProfit      decimal.Decimal             `json:"currentProfit"`      // profit on unresolved lock-ins
	TotalProfitsEarned decimal.Decimal             `json:"totalProfitsEarned"` // lifetime accrual total
	ProfitTransactions []ProfitTransactionResponse `json:"profitTransactions"`
	LastProfitAdded    *time.Time                  `json:"lastProfitAdded,omitempty"`
}

// ToProfitTransactionResponses converts profit records to DTOs.
func ToProfitTransactionResponses(txns []domain.ProfitTransaction) []ProfitTransactionResponse {
	res := make([]ProfitTransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = ProfitTransactionResponse{
			ProfitID:    t.ProfitID,
			LockinID:    t.LockinID,
			Quantity:    t.Quantity,
			AccrualDate: t.AccrualDate,
			CreatedAt:   t.CreatedAt,
		}
	}
	return res
}
