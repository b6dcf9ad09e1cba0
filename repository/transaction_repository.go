package repository

import (
	"context"
	"fmt"

	"pointledger/database"
	"pointledger/models"
)

// TransactionRepository implements the TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Append records a transaction and trims the owner's log to TransactionLogCap
func (r *TransactionRepository) Append(ctx context.Context, tx *models.Transaction) error {
	var counterpartyID, counterpartyHandle, counterpartyName *string
	if cp := tx.Counterparty; cp != nil {
		counterpartyID = &cp.UserID
		counterpartyHandle = &cp.Handle
		counterpartyName = &cp.DisplayName
	}

	query := `
		INSERT INTO transactions
		(id, user_id, type, direction, amount, counterparty_id, counterparty_handle,
		 counterparty_display_name, note, balance_after, related_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.Exec(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Type,
		tx.Direction,
		tx.Amount,
		counterpartyID,
		counterpartyHandle,
		counterpartyName,
		tx.Note,
		tx.BalanceAfter,
		tx.RelatedID,
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	trim := `
		DELETE FROM transactions
		WHERE user_id = $1
		  AND seq NOT IN (
			SELECT seq FROM transactions
			WHERE user_id = $1
			ORDER BY seq DESC
			LIMIT $2
		  )
	`
	if _, err := r.q.Exec(ctx, trim, tx.UserID, models.TransactionLogCap); err != nil {
		return fmt.Errorf("failed to trim transaction log: %w", err)
	}

	return nil
}

// List returns the owner's log, most recent first
func (r *TransactionRepository) List(ctx context.Context, userID string) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, type, direction, amount, counterparty_id, counterparty_handle,
		       counterparty_display_name, note, balance_after, related_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY seq DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, models.TransactionLogCap)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		var tx models.Transaction
		var counterpartyID, counterpartyHandle, counterpartyName *string
		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Type,
			&tx.Direction,
			&tx.Amount,
			&counterpartyID,
			&counterpartyHandle,
			&counterpartyName,
			&tx.Note,
			&tx.BalanceAfter,
			&tx.RelatedID,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if counterpartyID != nil {
			tx.Counterparty = &models.Counterparty{UserID: *counterpartyID}
			if counterpartyHandle != nil {
				tx.Counterparty.Handle = *counterpartyHandle
			}
			if counterpartyName != nil {
				tx.Counterparty.DisplayName = *counterpartyName
			}
		}
		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
