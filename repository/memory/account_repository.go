package memory

import (
	"context"
	"fmt"
	"time"

	"pointledger/models"
	"pointledger/service"
)

type accountRepository struct {
	uow *unitOfWork
}

func (r *accountRepository) Get(ctx context.Context, userID string) (*models.Account, error) {
	account, ok := r.uow.store.accounts[userID]
	if !ok {
		return nil, nil
	}
	accountCopy := *account
	return &accountCopy, nil
}

func (r *accountRepository) GetOrCreate(ctx context.Context, userID string, at time.Time) (*models.Account, bool, error) {
	store := r.uow.store
	if account, ok := store.accounts[userID]; ok {
		accountCopy := *account
		return &accountCopy, false, nil
	}

	account := &models.Account{
		UserID:         userID,
		Balance:        0,
		LastActivityAt: at,
		CreatedAt:      at,
	}
	store.accounts[userID] = account
	r.uow.record(func() { delete(store.accounts, userID) })

	accountCopy := *account
	return &accountCopy, true, nil
}

// Lock is a no-op: the unit of work already holds the ledger-wide lock
func (r *accountRepository) Lock(ctx context.Context, userIDs ...string) error {
	return nil
}

func (r *accountRepository) Credit(ctx context.Context, userID string, amount int64, at time.Time) (*models.Account, error) {
	return r.adjust(userID, amount, at)
}

func (r *accountRepository) Debit(ctx context.Context, userID string, amount int64, at time.Time) (*models.Account, error) {
	return r.adjust(userID, -amount, at)
}

func (r *accountRepository) adjust(userID string, delta int64, at time.Time) (*models.Account, error) {
	account, ok := r.uow.store.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("account %s not found", userID)
	}
	if account.Balance+delta < 0 {
		return nil, service.ErrInsufficientBalance
	}

	previous := *account
	r.uow.record(func() { *account = previous })

	account.Balance += delta
	account.LastActivityAt = at

	accountCopy := *account
	return &accountCopy, nil
}
