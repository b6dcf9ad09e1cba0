package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"pointledger/models"
	"pointledger/repository/memory"
	"pointledger/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays draws in order, then repeats the last one
type scriptedRand struct {
	mu    sync.Mutex
	draws []float64
}

func (r *scriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.draws) == 1 {
		return r.draws[0]
	}
	d := r.draws[0]
	r.draws = r.draws[1:]
	return d
}

type ledger struct {
	users    service.UserService
	game     service.GamblingService
	transfer service.TransferService
	requests service.PaymentRequestService
}

func newLedger(rnd service.Randomizer) *ledger {
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	src := service.Sources{
		Clock: service.FixedClock{At: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		IDs:   &service.SequentialIDs{Prefix: "id"},
		Rand:  rnd,
	}
	return &ledger{
		users:    service.NewUserService(factory, src),
		game:     service.NewGamblingService(factory, service.DefaultGameConfig(), src),
		transfer: service.NewTransferService(factory, src),
		requests: service.NewPaymentRequestService(factory, src),
	}
}

func balanceOf(t *testing.T, l *ledger, userID string) int64 {
	t.Helper()
	overview, err := l.users.GetOrCreateUser(context.Background(), userID)
	require.NoError(t, err)
	return overview.Account.Balance
}

func TestLedger_EndToEndScenario(t *testing.T) {
	ctx := context.Background()
	l := newLedger(service.FixedRandomizer(0.1)) // every play wins

	play, err := l.game.Play(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, play.Win)
	assert.Equal(t, int64(5), play.NewBalance)

	handle := "$alice"
	profile, err := l.users.UpdateProfile(ctx, "u1", &handle, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Handle)

	_, err = l.transfer.Transfer(ctx, "u2", "$alice", 3, "")
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	for i := 0; i < 2; i++ {
		_, err = l.game.Play(ctx, "u2")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(10), balanceOf(t, l, "u2"))

	sent, err := l.transfer.Transfer(ctx, "u2", "$alice", 3, "thanks")
	require.NoError(t, err)
	assert.Equal(t, int64(7), sent.SenderBalance)
	assert.Equal(t, int64(8), sent.RecipientBalance)

	u1Log, err := l.users.ListActivity(ctx, "u1")
	require.NoError(t, err)
	u2Log, err := l.users.ListActivity(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeTransferReceived, u1Log[0].Type)
	assert.Equal(t, models.TransactionTypeTransferSent, u2Log[0].Type)
	assert.Equal(t, sent.TransactionID, u1Log[0].ID)
	assert.Equal(t, sent.TransactionID, u2Log[0].ID)
	assert.Equal(t, "u2", u1Log[0].Counterparty.UserID)
	assert.Equal(t, "alice", u2Log[0].Counterparty.Handle)

	req, err := l.requests.CreateRequest(ctx, "u2", "alice", 2, "pizza")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRequestStatusPending, req.Status)

	pending, err := l.requests.ListPendingRequests(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].IsIncoming("u1"))

	accepted, transfer, err := l.requests.AcceptRequest(ctx, "u1", req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRequestStatusCompleted, accepted.Status)
	require.NotNil(t, accepted.TransactionID)
	assert.Equal(t, transfer.TransactionID, *accepted.TransactionID)
	assert.Equal(t, int64(6), balanceOf(t, l, "u1"))
	assert.Equal(t, int64(9), balanceOf(t, l, "u2"))

	u1Log, err = l.users.ListActivity(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u1Log[0].RelatedID)
	assert.Equal(t, req.ID, *u1Log[0].RelatedID)

	// Terminal states never change again
	_, _, err = l.requests.AcceptRequest(ctx, "u1", req.ID)
	assert.ErrorIs(t, err, service.ErrNotPending)
	_, err = l.requests.DeclineRequest(ctx, "u2", req.ID)
	assert.ErrorIs(t, err, service.ErrNotPending)
	assert.Equal(t, int64(6), balanceOf(t, l, "u1"))

	pending, err = l.requests.ListPendingRequests(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLedger_FailedAcceptLeavesRequestPending(t *testing.T) {
	ctx := context.Background()
	l := newLedger(service.FixedRandomizer(0.9)) // every play loses, paying 1

	_, err := l.game.Play(ctx, "u1")
	require.NoError(t, err)
	_, err = l.game.Play(ctx, "u2")
	require.NoError(t, err)

	req, err := l.requests.CreateRequest(ctx, "u2", "u1", 5, "")
	require.NoError(t, err)

	_, _, err = l.requests.AcceptRequest(ctx, "u1", req.ID)
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	pending, err := l.requests.ListPendingRequests(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].ID)
	assert.Equal(t, int64(1), balanceOf(t, l, "u1"))
	assert.Equal(t, int64(1), balanceOf(t, l, "u2"))
}

func TestLedger_HandleReassignment(t *testing.T) {
	ctx := context.Background()
	l := newLedger(service.FixedRandomizer(0.1))

	alice, other := "alice", "alice_2"
	_, err := l.users.UpdateProfile(ctx, "u1", &alice, nil)
	require.NoError(t, err)

	upper := "ALICE"
	_, err = l.users.UpdateProfile(ctx, "u2", &upper, nil)
	assert.ErrorIs(t, err, service.ErrHandleTaken)

	_, err = l.users.UpdateProfile(ctx, "u1", &other, nil)
	require.NoError(t, err)

	_, err = l.users.ResolveHandle(ctx, "alice")
	assert.ErrorIs(t, err, service.ErrNotFound)
	moved, err := l.users.ResolveHandle(ctx, "alice_2")
	require.NoError(t, err)
	assert.Equal(t, "u1", moved.UserID)

	_, err = l.users.UpdateProfile(ctx, "u2", &upper, nil)
	require.NoError(t, err)

	owner, err := l.users.ResolveHandle(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u2", owner.UserID)
	assert.Equal(t, "ALICE", owner.Handle)
}

func TestLedger_ActivityIsNotMutableThroughReads(t *testing.T) {
	ctx := context.Background()
	l := newLedger(service.FixedRandomizer(0.1))

	_, err := l.game.Play(ctx, "u1")
	require.NoError(t, err)
	balanceOf(t, l, "u2")
	_, err = l.transfer.Transfer(ctx, "u1", "u2", 2, "lunch")
	require.NoError(t, err)

	activity, err := l.users.ListActivity(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, activity[0].Counterparty)
	activity[0].Counterparty.UserID = "hacked"

	again, err := l.users.ListActivity(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u2", again[0].Counterparty.UserID)
}

func TestLedger_ActivityCappedAt500(t *testing.T) {
	ctx := context.Background()
	l := newLedger(service.FixedRandomizer(0.9))

	for i := 0; i < models.TransactionLogCap+1; i++ {
		_, err := l.game.Play(ctx, "u1")
		require.NoError(t, err)
	}

	activity, err := l.users.ListActivity(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, activity, models.TransactionLogCap)
	assert.Equal(t, int64(models.TransactionLogCap+1), activity[0].BalanceAfter)
	assert.Equal(t, int64(2), activity[len(activity)-1].BalanceAfter)
}

func TestLedger_ConcurrentTransfersConservePoints(t *testing.T) {
	ctx := context.Background()
	l := newLedger(service.FixedRandomizer(0.1))

	for i := 0; i < 4; i++ {
		_, err := l.game.Play(ctx, "u1")
		require.NoError(t, err)
		_, err = l.game.Play(ctx, "u2")
		require.NoError(t, err)
	}
	total := balanceOf(t, l, "u1") + balanceOf(t, l, "u2")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = l.transfer.Transfer(ctx, "u1", "u2", 3, "")
		}()
		go func() {
			defer wg.Done()
			_, _ = l.transfer.Transfer(ctx, "u2", "u1", 2, "")
		}()
	}
	wg.Wait()

	u1, u2 := balanceOf(t, l, "u1"), balanceOf(t, l, "u2")
	assert.GreaterOrEqual(t, u1, int64(0))
	assert.GreaterOrEqual(t, u2, int64(0))
	assert.Equal(t, total, u1+u2)
}

func TestLedger_WithdrawRejectsExcess(t *testing.T) {
	ctx := context.Background()
	l := newLedger(service.FixedRandomizer(0.1))

	_, err := l.game.Play(ctx, "u1")
	require.NoError(t, err)

	_, err = l.transfer.Withdraw(ctx, "u1", 6)
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	result, err := l.transfer.Withdraw(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.NewBalance)
	assert.NotEmpty(t, result.WithdrawalID)

	activity, err := l.users.ListActivity(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, models.TransactionTypeWithdraw, activity[0].Type)
	assert.Equal(t, models.DirectionDebit, activity[0].Direction)
}

func TestLedger_RequestDeclinedByRequester(t *testing.T) {
	ctx := context.Background()
	l := newLedger(&scriptedRand{draws: []float64{0.1, 0.9}})

	_, err := l.game.Play(ctx, "u1")
	require.NoError(t, err)
	_, err = l.game.Play(ctx, "u2")
	require.NoError(t, err)

	req, err := l.requests.CreateRequest(ctx, "u2", "u1", 1, "")
	require.NoError(t, err)

	_, err = l.requests.DeclineRequest(ctx, "u3", req.ID)
	assert.ErrorIs(t, err, service.ErrNoPermission)

	declined, err := l.requests.DeclineRequest(ctx, "u2", req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRequestStatusDeclined, declined.Status)
	assert.Nil(t, declined.TransactionID)

	_, _, err = l.requests.AcceptRequest(ctx, "u1", req.ID)
	assert.ErrorIs(t, err, service.ErrNotPending)
	assert.Equal(t, int64(5), balanceOf(t, l, "u1"))
	assert.Equal(t, int64(1), balanceOf(t, l, "u2"))
}
