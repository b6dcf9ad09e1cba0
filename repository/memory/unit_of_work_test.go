package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pointledger/events"
	"pointledger/models"
	"pointledger/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func begin(t *testing.T, factory service.UnitOfWorkFactory) service.UnitOfWork {
	t.Helper()
	uow := factory.Create()
	require.NoError(t, uow.Begin(context.Background()))
	return uow
}

func TestUnitOfWork_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	factory := NewUnitOfWorkFactory(store, nil)

	// Seed an account with a handle and some history
	uow := begin(t, factory)
	_, _, err := uow.AccountRepository().GetOrCreate(ctx, "u1", testNow)
	require.NoError(t, err)
	_, err = uow.ProfileRepository().GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	_, err = uow.AccountRepository().Credit(ctx, "u1", 10, testNow)
	require.NoError(t, err)
	require.NoError(t, uow.ProfileRepository().SetHandle(ctx, "u1", "alice"))
	require.NoError(t, uow.TransactionRepository().Append(ctx, &models.Transaction{ID: "t1", UserID: "u1", Amount: 10}))
	require.NoError(t, uow.Commit())

	// Mutate everything, then roll back
	uow = begin(t, factory)
	_, _, err = uow.AccountRepository().GetOrCreate(ctx, "u2", testNow)
	require.NoError(t, err)
	_, err = uow.AccountRepository().Debit(ctx, "u1", 4, testNow.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, uow.ProfileRepository().SetHandle(ctx, "u1", "alicia"))
	require.NoError(t, uow.ProfileRepository().SetDisplayName(ctx, "u1", "Alice"))
	require.NoError(t, uow.TransactionRepository().Append(ctx, &models.Transaction{ID: "t2", UserID: "u1", Amount: 4}))
	require.NoError(t, uow.PaymentRequestRepository().Create(ctx, &models.PaymentRequest{ID: "r1", FromUserID: "u1", ToUserID: "u2", Amount: 1, Status: models.PaymentRequestStatusPending}))
	require.NoError(t, uow.Rollback())

	uow = begin(t, factory)
	defer uow.Rollback()

	account, err := uow.AccountRepository().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), account.Balance)
	assert.Equal(t, testNow, account.LastActivityAt)

	missing, err := uow.AccountRepository().Get(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	profile, err := uow.ProfileRepository().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Handle)
	assert.Empty(t, profile.DisplayName)

	owner, err := uow.ProfileRepository().ResolveHandle(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)
	owner, err = uow.ProfileRepository().ResolveHandle(ctx, "alicia")
	require.NoError(t, err)
	assert.Empty(t, owner)

	log, err := uow.TransactionRepository().List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "t1", log[0].ID)

	req, err := uow.PaymentRequestRepository().GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestUnitOfWork_EventsFlushOnlyOnCommit(t *testing.T) {
	bus := events.NewBus()
	received := make(chan events.Event, 4)
	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, e events.Event) {
		received <- e
	})
	factory := NewUnitOfWorkFactory(NewStore(), bus)

	uow := begin(t, factory)
	uow.EventBus().Publish(events.AccountCreatedEvent{UserID: "dropped"})
	require.NoError(t, uow.Rollback())

	uow = begin(t, factory)
	uow.EventBus().Publish(events.AccountCreatedEvent{UserID: "kept"})
	require.NoError(t, uow.Commit())

	select {
	case e := <-received:
		assert.Equal(t, "kept", e.(events.AccountCreatedEvent).UserID)
	case <-time.After(time.Second):
		t.Fatal("committed event was not delivered")
	}

	select {
	case e := <-received:
		t.Fatalf("unexpected event %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnitOfWork_BeginTwiceFails(t *testing.T) {
	uow := begin(t, NewUnitOfWorkFactory(NewStore(), nil))
	defer uow.Rollback()

	assert.Error(t, uow.Begin(context.Background()))
}

func TestAccountRepository_DebitNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	uow := begin(t, NewUnitOfWorkFactory(NewStore(), nil))
	defer uow.Rollback()

	_, _, err := uow.AccountRepository().GetOrCreate(ctx, "u1", testNow)
	require.NoError(t, err)
	_, err = uow.AccountRepository().Credit(ctx, "u1", 3, testNow)
	require.NoError(t, err)

	_, err = uow.AccountRepository().Debit(ctx, "u1", 4, testNow)
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	account, err := uow.AccountRepository().Debit(ctx, "u1", 3, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.Balance)
}

func TestProfileRepository_HandleUniqueness(t *testing.T) {
	ctx := context.Background()
	uow := begin(t, NewUnitOfWorkFactory(NewStore(), nil))
	defer uow.Rollback()

	profiles := uow.ProfileRepository()
	for _, id := range []string{"u1", "u2"} {
		_, err := profiles.GetOrCreate(ctx, id)
		require.NoError(t, err)
	}

	require.NoError(t, profiles.SetHandle(ctx, "u1", "Alice"))

	// Case-insensitive collision
	assert.ErrorIs(t, profiles.SetHandle(ctx, "u2", "ALICE"), service.ErrHandleTaken)

	// Re-claiming your own handle with a different case is allowed
	require.NoError(t, profiles.SetHandle(ctx, "u1", "alice"))

	// Switching releases the old handle
	require.NoError(t, profiles.SetHandle(ctx, "u1", "alice2"))
	require.NoError(t, profiles.SetHandle(ctx, "u2", "alice"))

	owner, err := profiles.ResolveHandle(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "u2", owner)
	owner, err = profiles.ResolveHandle(ctx, "alice2")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)
}

func TestTransactionRepository_CapsLog(t *testing.T) {
	ctx := context.Background()
	uow := begin(t, NewUnitOfWorkFactory(NewStore(), nil))
	defer uow.Rollback()

	total := models.TransactionLogCap + 1
	for i := 1; i <= total; i++ {
		err := uow.TransactionRepository().Append(ctx, &models.Transaction{
			ID:     fmt.Sprintf("t%d", i),
			UserID: "u1",
			Amount: 1,
		})
		require.NoError(t, err)
	}

	log, err := uow.TransactionRepository().List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, log, models.TransactionLogCap)
	assert.Equal(t, fmt.Sprintf("t%d", total), log[0].ID)
	assert.Equal(t, "t2", log[len(log)-1].ID)
}

func TestTransactionRepository_ListReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	uow := begin(t, NewUnitOfWorkFactory(NewStore(), nil))
	defer uow.Rollback()

	requestID := "r1"
	appended := &models.Transaction{
		ID:           "t1",
		UserID:       "u1",
		Type:         models.TransactionTypeTransferSent,
		Amount:       3,
		Counterparty: &models.Counterparty{UserID: "u2", Handle: "bob"},
		RelatedID:    &requestID,
	}
	repo := uow.TransactionRepository()
	require.NoError(t, repo.Append(ctx, appended))

	// Changes to the appended value must not reach the stored entry
	appended.Counterparty.UserID = "changed"
	requestID = "changed"

	listed, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Counterparty.UserID = "hacked"
	listed[0].Counterparty.Handle = "hacked"
	*listed[0].RelatedID = "hacked"

	again, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "u2", again[0].Counterparty.UserID)
	assert.Equal(t, "bob", again[0].Counterparty.Handle)
	assert.Equal(t, "r1", *again[0].RelatedID)
}

func TestPaymentRequestRepository_ListPendingByUser(t *testing.T) {
	ctx := context.Background()
	uow := begin(t, NewUnitOfWorkFactory(NewStore(), nil))
	defer uow.Rollback()

	repo := uow.PaymentRequestRepository()
	create := func(id, from, to string, at time.Time) {
		require.NoError(t, repo.Create(ctx, &models.PaymentRequest{
			ID: id, FromUserID: from, ToUserID: to, Amount: 1,
			Status: models.PaymentRequestStatusPending, CreatedAt: at, UpdatedAt: at,
		}))
	}
	create("r1", "u1", "u2", testNow)
	create("r2", "u2", "u1", testNow)
	create("r3", "u3", "u2", testNow.Add(time.Second))
	create("r4", "u1", "u3", testNow.Add(2*time.Second))

	declined, err := repo.GetByID(ctx, "r2")
	require.NoError(t, err)
	declined.Status = models.PaymentRequestStatusDeclined
	require.NoError(t, repo.Update(ctx, declined))

	pending, err := repo.ListPendingByUser(ctx, "u2")
	require.NoError(t, err)

	ids := make([]string, len(pending))
	for i, r := range pending {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"r3", "r1"}, ids)
}
