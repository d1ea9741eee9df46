package domain

import "time"

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Wallet is a per-user internal balance, created lazily on first use.
// Balance is in minor currency units and always equals the running sum of the
// wallet's transaction ledger.
type Wallet struct {
	ID      string
	UserID  string
	Balance int64
}

// WalletTransaction is one append-only ledger entry. BalanceBefore and
// BalanceAfter snapshot the wallet around the mutation.
type WalletTransaction struct {
	ID            string
	WalletID      string
	Type          TransactionType
	Amount        int64
	Description   string
	ReferenceID   string
	BalanceBefore int64
	BalanceAfter  int64
	CreatedAt     time.Time
}
