package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTxnDirection indicates whether a wallet transaction adds to or removes from the balance.
type WalletTxnDirection string

const (
	WalletCredit WalletTxnDirection = "CREDIT"
	WalletDebit  WalletTxnDirection = "DEBIT"
)

// WalletTxnKind classifies the business event behind a wallet movement.
type WalletTxnKind string

const (
	TxnLockinDeposit WalletTxnKind = "LOCKIN_DEPOSIT" // principal debited into a new lock-in
	TxnDailyProfit   WalletTxnKind = "DAILY_PROFIT"   // accrual scheduler credit
	TxnLockinPayout  WalletTxnKind = "LOCKIN_PAYOUT"  // matured principal returned to wallet
)

// Wallet holds a user's spendable balance. One row per user.
type Wallet struct {
	UserID  string          `json:"userID"`
	Balance decimal.Decimal `json:"balance"`
	AuditFields
}

// WalletTransaction is the audit record written for every wallet credit/debit.
type WalletTransaction struct {
	TxnID        string             `json:"txnID"`
	UserID       string             `json:"userID"`
	Amount       decimal.Decimal    `json:"amount"` // always positive; Direction carries the sign
	Direction    WalletTxnDirection `json:"direction"`
	Kind         WalletTxnKind      `json:"kind"`
	LockinID     *string            `json:"lockinID,omitempty"`
	BalanceAfter decimal.Decimal    `json:"balanceAfter"`
	CreatedAt    time.Time          `json:"createdAt"`
}
