package memory

import (
	"context"
	"fmt"

	"pointledger/events"
	"pointledger/service"
)

// unitOfWork implements service.UnitOfWork on top of a Store
type unitOfWork struct {
	store            *Store
	ctx              context.Context
	active           bool
	undo             []func()
	transactionalBus *events.TransactionalBus

	accountRepo        *accountRepository
	profileRepo        *profileRepository
	transactionRepo    *transactionRepository
	paymentRequestRepo *paymentRequestRepository
}

// NewUnitOfWorkFactory creates a factory whose units of work share the given store
func NewUnitOfWorkFactory(store *Store, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		store:    store,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	store    *Store
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		store:            f.store,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin takes the ledger lock
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	u.active = true
	u.ctx = ctx
	u.undo = nil

	u.accountRepo = &accountRepository{uow: u}
	u.profileRepo = &profileRepository{uow: u}
	u.transactionRepo = &transactionRepository{uow: u}
	u.paymentRequestRepo = &paymentRequestRepository{uow: u}

	return nil
}

// Commit keeps every change and releases the ledger lock
func (u *unitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}

	u.undo = nil
	u.active = false
	u.store.mu.Unlock()

	// Flush pending events after successful commit
	u.transactionalBus.Flush(u.ctx)

	return nil
}

// Rollback reverts every change made since Begin
func (u *unitOfWork) Rollback() error {
	if !u.active {
		return nil // Nothing to rollback
	}

	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.undo = nil
	u.active = false
	u.store.mu.Unlock()

	// Discard pending events on rollback
	u.transactionalBus.Discard()

	return nil
}

// record registers the inverse of a mutation that was just applied
func (u *unitOfWork) record(fn func()) {
	u.undo = append(u.undo, fn)
}

func (u *unitOfWork) mustBeActive() {
	if !u.active {
		panic("unit of work not started - call Begin() first")
	}
}

func (u *unitOfWork) AccountRepository() service.AccountRepository {
	u.mustBeActive()
	return u.accountRepo
}

func (u *unitOfWork) ProfileRepository() service.ProfileRepository {
	u.mustBeActive()
	return u.profileRepo
}

func (u *unitOfWork) TransactionRepository() service.TransactionRepository {
	u.mustBeActive()
	return u.transactionRepo
}

func (u *unitOfWork) PaymentRequestRepository() service.PaymentRequestRepository {
	u.mustBeActive()
	return u.paymentRequestRepo
}

func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
