package common

import (
	"errors"
	"testing"
	"time"

	"pointledger/models"
	"pointledger/service"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBalance(tt.in))
	}
}

func TestFormatPlayResult(t *testing.T) {
	assert.Equal(t,
		"🎉 **Bonus!** You earned **5 points**. New balance: **5 points**",
		FormatPlayResult(&models.PlayResult{Win: true, Payout: 5, NewBalance: 5}))
	assert.Equal(t,
		"🪙 You earned **1 point**. New balance: **1,001 points**",
		FormatPlayResult(&models.PlayResult{Payout: 1, NewBalance: 1001}))
}

func TestFormatCounterparty(t *testing.T) {
	assert.Equal(t, "$alice", FormatCounterparty(&models.Counterparty{UserID: "1", Handle: "alice", DisplayName: "Alice"}))
	assert.Equal(t, "Alice", FormatCounterparty(&models.Counterparty{UserID: "1", DisplayName: "Alice"}))
	assert.Equal(t, "<@1>", FormatCounterparty(&models.Counterparty{UserID: "1"}))
	assert.Equal(t, "Unknown", FormatCounterparty(nil))
}

func TestFormatTransaction(t *testing.T) {
	at := time.Unix(1714564800, 0)

	sent := &models.Transaction{
		Type:         models.TransactionTypeTransferSent,
		Direction:    models.DirectionDebit,
		Amount:       3,
		Counterparty: &models.Counterparty{UserID: "2", Handle: "bob"},
		Note:         "lunch",
		CreatedAt:    at,
	}
	assert.Equal(t, "`-3` Sent to $bob <t:1714564800:R> _lunch_", FormatTransaction(sent))

	play := &models.Transaction{
		Type:      models.TransactionTypeGamePayout,
		Direction: models.DirectionCredit,
		Amount:    5,
		Note:      "Play (win)",
		CreatedAt: at,
	}
	assert.Equal(t, "`+5` Play <t:1714564800:R>", FormatTransaction(play))
}

func TestFormatPaymentRequest(t *testing.T) {
	req := &models.PaymentRequest{ID: "r1", FromUserID: "2", ToUserID: "1", Amount: 2500, Note: "pizza"}

	assert.Equal(t, "📥 <@2> requests **2,500 points** _pizza_ (id `r1`)", FormatPaymentRequest(req, "1"))
	assert.Equal(t, "📤 You requested **2,500 points** from <@1> _pizza_ (id `r1`)", FormatPaymentRequest(req, "2"))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Cannot transfer to yourself.", ErrorMessage(service.ErrSelfTransfer))
	assert.Equal(t, "Something went wrong. Please try again.", ErrorMessage(errors.New("connection reset")))
}
