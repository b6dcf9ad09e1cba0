package memory

import (
	"context"

	"pointledger/models"
)

type transactionRepository struct {
	uow *unitOfWork
}

// Append puts tx at the head of its owner's log and drops whatever falls past the cap
func (r *transactionRepository) Append(ctx context.Context, tx *models.Transaction) error {
	store := r.uow.store
	previous, existed := store.transactions[tx.UserID]

	keep := len(previous)
	if keep > models.TransactionLogCap-1 {
		keep = models.TransactionLogCap - 1
	}

	log := make([]*models.Transaction, 0, keep+1)
	log = append(log, copyTransaction(tx))
	log = append(log, previous[:keep]...)
	store.transactions[tx.UserID] = log

	owner := tx.UserID
	r.uow.record(func() {
		if existed {
			store.transactions[owner] = previous
		} else {
			delete(store.transactions, owner)
		}
	})

	return nil
}

func (r *transactionRepository) List(ctx context.Context, userID string) ([]*models.Transaction, error) {
	log := r.uow.store.transactions[userID]
	snapshot := make([]*models.Transaction, len(log))
	for i, tx := range log {
		snapshot[i] = copyTransaction(tx)
	}
	return snapshot, nil
}

func copyTransaction(tx *models.Transaction) *models.Transaction {
	txCopy := *tx
	if tx.Counterparty != nil {
		counterparty := *tx.Counterparty
		txCopy.Counterparty = &counterparty
	}
	if tx.RelatedID != nil {
		relatedID := *tx.RelatedID
		txCopy.RelatedID = &relatedID
	}
	return &txCopy
}
