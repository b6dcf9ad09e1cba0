package models

import (
	"time"
)

// TransactionLogCap is the maximum number of transactions kept per user
const TransactionLogCap = 500

// TransactionType represents the kind of balance change
type TransactionType string

const (
	TransactionTypeGamePayout       TransactionType = "game_payout"
	TransactionTypeWithdraw         TransactionType = "withdraw"
	TransactionTypeTransferSent     TransactionType = "transfer_sent"
	TransactionTypeTransferReceived TransactionType = "transfer_received"
)

// Direction tells whether a transaction added to or removed from the balance
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Counterparty identifies the other participant of a transfer
type Counterparty struct {
	UserID      string `json:"id"`
	Handle      string `json:"handle,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Transaction is one balance-affecting event from its owner's point of view.
// Both sides of a transfer carry the same ID.
type Transaction struct {
	ID           string          `db:"id" json:"id"`
	UserID       string          `db:"user_id" json:"-"`
	Type         TransactionType `db:"type" json:"type"`
	Direction    Direction       `db:"direction" json:"direction"`
	Amount       int64           `db:"amount" json:"amount"`
	Counterparty *Counterparty   `db:"counterparty" json:"counterparty,omitempty"`
	Note         string          `db:"note" json:"note"`
	BalanceAfter int64           `db:"balance_after" json:"balanceAfter"`
	RelatedID    *string         `db:"related_id" json:"relatedId,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"timestamp"`
}

// SignedAmount returns the amount with the sign of its direction
func (t *Transaction) SignedAmount() int64 {
	if t.Direction == DirectionDebit {
		return -t.Amount
	}
	return t.Amount
}
