package repository

import (
	"context"
	"fmt"
	"testing"

	"pointledger/models"
	"pointledger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_AppendAndList(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTransactionRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedAccount(t, testDB.DB, "u1", 0)
	testutil.SeedAccount(t, testDB.DB, "u2", 0)

	t.Run("empty log", func(t *testing.T) {
		log, err := repo.List(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, log)
	})

	t.Run("counterparty and related id round trip", func(t *testing.T) {
		related := "req-1"
		tx := testutil.CreateTestTransaction("t1", "u2", 3, 3)
		tx.Type = models.TransactionTypeTransferReceived
		tx.Counterparty = &models.Counterparty{UserID: "u1", Handle: "alice"}
		tx.RelatedID = &related
		require.NoError(t, repo.Append(ctx, tx))

		log, err := repo.List(ctx, "u2")
		require.NoError(t, err)
		require.Len(t, log, 1)
		assert.Equal(t, "u1", log[0].Counterparty.UserID)
		assert.Equal(t, "alice", log[0].Counterparty.Handle)
		assert.Equal(t, related, *log[0].RelatedID)
		assert.True(t, tx.CreatedAt.Equal(log[0].CreatedAt))
	})

	t.Run("log is capped and newest first", func(t *testing.T) {
		total := models.TransactionLogCap + 1
		for i := 1; i <= total; i++ {
			tx := testutil.CreateTestTransaction(fmt.Sprintf("p%d", i), "u1", 1, int64(i))
			require.NoError(t, repo.Append(ctx, tx))
		}

		log, err := repo.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, log, models.TransactionLogCap)
		assert.Equal(t, fmt.Sprintf("p%d", total), log[0].ID)
		assert.Equal(t, "p2", log[len(log)-1].ID)

		var stored int
		err = testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, "u1").Scan(&stored)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionLogCap, stored)
	})
}
