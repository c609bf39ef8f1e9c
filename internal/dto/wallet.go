package dto

import (
	"time"

	"github.com/nexavault/lockin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WalletResponse defines the data returned for a wallet balance.
type WalletResponse struct {
	UserID        string          `json:"userID"`
	Balance       decimal.Decimal `json:"balance"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// WalletTransactionResponse defines one wallet audit record.
type WalletTransactionResponse struct {
	TxnID        string                    `json:"txnID"`
	Amount       decimal.Decimal           `json:"amount"`
	Direction    domain.WalletTxnDirection `json:"direction"`
	Kind         domain.WalletTxnKind      `json:"kind"`
	LockinID     *string                   `json:"lockinID,omitempty"`
	BalanceAfter decimal.Decimal           `json:"balanceAfter"`
	CreatedAt    time.Time                 `json:"createdAt"`
}

// WalletDetailResponse bundles a wallet with its recent transactions.
type WalletDetailResponse struct {
	Wallet       WalletResponse              `json:"wallet"`
	Transactions []WalletTransactionResponse `json:"transactions"`
}

// ToWalletResponse converts a domain.Wallet to its response DTO.
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		UserID:        w.UserID,
		Balance:       w.Balance,
		LastUpdatedAt: w.LastUpdatedAt,
	}
}

// ToWalletTransactionResponses converts wallet audit records to DTOs.
func ToWalletTransactionResponses(txns []domain.WalletTransaction) []WalletTransactionResponse {
	res := make([]WalletTransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = WalletTransactionResponse{
			TxnID:        t.TxnID,
			Amount:       t.Amount,
			Direction:    t.Direction,
			Kind:         t.Kind,
			LockinID:     t.LockinID,
			BalanceAfter: t.BalanceAfter,
			CreatedAt:    t.CreatedAt,
		}
	}
	return res
}
