package models

import "time"

// PlayResult is the outcome of a single play
type PlayResult struct {
	Win        bool  `json:"win"`
	Payout     int64 `json:"payout"`
	NewBalance int64 `json:"newBalance"`
}

// WithdrawResult describes a simulated withdrawal
type WithdrawResult struct {
	WithdrawalID string `json:"withdrawalId"`
	Amount       int64  `json:"amount"`
	NewBalance   int64  `json:"newBalance"`
}

// TransferResult describes a completed transfer
type TransferResult struct {
	TransactionID    string        `json:"transactionId"`
	Amount           int64         `json:"amount"`
	SenderBalance    int64         `json:"senderBalance"`
	RecipientBalance int64         `json:"recipientBalance"`
	Recipient        *Counterparty `json:"recipient"`
}

// Quotes holds USD prices from the external feed. Nil means unavailable.
type Quotes struct {
	WBTCUSD   *float64  `json:"WBTC_USD"`
	WETHUSD   *float64  `json:"WETH_USD"`
	FetchedAt time.Time `json:"fetchedAt"`
}
