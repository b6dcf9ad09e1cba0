package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"pointledger/events"
	"pointledger/repository/testutil"
	"pointledger/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_LedgerOverPostgres(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	transfers := make(chan events.Event, 8)
	bus.Subscribe(events.EventTypeTransferCompleted, func(ctx context.Context, e events.Event) {
		transfers <- e
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	src := service.Sources{Rand: service.FixedRandomizer(0.1)}
	users := service.NewUserService(factory, src)
	game := service.NewGamblingService(factory, service.DefaultGameConfig(), src)
	transferSvc := service.NewTransferService(factory, src)
	requests := service.NewPaymentRequestService(factory, src)

	_, err := game.Play(ctx, "u1")
	require.NoError(t, err)

	handle := "$alice"
	_, err = users.UpdateProfile(ctx, "u1", &handle, nil)
	require.NoError(t, err)

	_, err = transferSvc.Transfer(ctx, "u2", "alice", 3, "")
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	// The failed transfer rolled back, so u2 was never persisted
	missing, err := NewAccountRepository(testDB.DB).Get(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	testutil.SeedAccount(t, testDB.DB, "u2", 10)

	result, err := transferSvc.Transfer(ctx, "u2", "alice", 3, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.SenderBalance)
	assert.Equal(t, int64(8), result.RecipientBalance)

	select {
	case e := <-transfers:
		assert.Equal(t, result.TransactionID, e.(events.TransferCompletedEvent).TransactionID)
	case <-time.After(time.Second):
		t.Fatal("transfer event was not delivered after commit")
	}

	req, err := requests.CreateRequest(ctx, "u2", "u1", 2, "")
	require.NoError(t, err)
	_, _, err = requests.AcceptRequest(ctx, "u1", req.ID)
	require.NoError(t, err)

	u1, err := users.GetOrCreateUser(ctx, "u1")
	require.NoError(t, err)
	u2, err := users.GetOrCreateUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(6), u1.Account.Balance)
	assert.Equal(t, int64(9), u2.Account.Balance)

	// Concurrent opposing transfers must neither deadlock nor break conservation
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = transferSvc.Transfer(ctx, "u1", "u2", 1, "")
		}()
		go func() {
			defer wg.Done()
			_, _ = transferSvc.Transfer(ctx, "u2", "u1", 1, "")
		}()
	}
	wg.Wait()

	u1, err = users.GetOrCreateUser(ctx, "u1")
	require.NoError(t, err)
	u2, err = users.GetOrCreateUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(15), u1.Account.Balance+u2.Account.Balance)
}
