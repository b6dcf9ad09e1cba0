package testutil

import (
	"context"
	"testing"
	"time"

	"pointledger/database"
	"pointledger/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// CreateTestTransaction builds a payout transaction owned by userID
func CreateTestTransaction(id, userID string, amount, balanceAfter int64) *models.Transaction {
	return &models.Transaction{
		ID:           id,
		UserID:       userID,
		Type:         models.TransactionTypeGamePayout,
		Direction:    models.DirectionCredit,
		Amount:       amount,
		Note:         "Play",
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// CreateTestPaymentRequest builds a pending request from -> to
func CreateTestPaymentRequest(id, from, to string, amount int64, createdAt time.Time) *models.PaymentRequest {
	return &models.PaymentRequest{
		ID:         id,
		FromUserID: from,
		ToUserID:   to,
		Amount:     amount,
		Note:       "test",
		Status:     models.PaymentRequestStatusPending,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// SeedAccount inserts an account and empty profile with the given balance
func SeedAccount(t *testing.T, db *database.DB, userID string, balance int64) {
	t.Helper()
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		now := time.Now().UTC()
		if _, err := tx.Exec(context.Background(),
			`INSERT INTO accounts (user_id, balance, last_activity_at, created_at) VALUES ($1, $2, $3, $3)`,
			userID, balance, now); err != nil {
			return err
		}
		_, err := tx.Exec(context.Background(), `INSERT INTO profiles (user_id) VALUES ($1)`, userID)
		return err
	})
	require.NoError(t, err)
}
