package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pointledger/database"
	"pointledger/models"
	"pointledger/service"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `user_id, balance, last_activity_at, created_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.UserID,
		&account.Balance,
		&account.LastActivityAt,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Get retrieves an account by user id
func (r *AccountRepository) Get(ctx context.Context, userID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", userID, err)
	}

	return account, nil
}

// GetOrCreate inserts a zero-balance account unless one already exists
func (r *AccountRepository) GetOrCreate(ctx context.Context, userID string, at time.Time) (*models.Account, bool, error) {
	query := `
		INSERT INTO accounts (user_id, balance, last_activity_at, created_at)
		VALUES ($1, 0, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, at))
	if err == nil {
		return account, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create account %s: %w", userID, err)
	}

	// Conflict: the account already exists
	account, err = r.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if account == nil {
		return nil, false, fmt.Errorf("account %s vanished after insert conflict", userID)
	}
	return account, false, nil
}

// Lock takes row locks on existing accounts in id order
func (r *AccountRepository) Lock(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}

	query := `
		SELECT user_id
		FROM accounts
		WHERE user_id = ANY($1)
		ORDER BY user_id
		FOR UPDATE
	`

	rows, err := r.q.Query(ctx, query, userIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	rows.Close()

	return rows.Err()
}

// Credit adds to a balance atomically
func (r *AccountRepository) Credit(ctx context.Context, userID string, amount int64, at time.Time) (*models.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, last_activity_at = $3
		WHERE user_id = $1
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, amount, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %s not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to credit account %s: %w", userID, err)
	}

	return account, nil
}

// Debit deducts from a balance atomically, failing if it would go negative
func (r *AccountRepository) Debit(ctx context.Context, userID string, amount int64, at time.Time) (*models.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE accounts
		SET balance = balance - $2, last_activity_at = $3
		WHERE user_id = $1 AND balance >= $2
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, amount, at))
	if errors.Is(err, pgx.ErrNoRows) {
		existing, getErr := r.Get(ctx, userID)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, fmt.Errorf("account %s not found", userID)
		}
		return nil, service.ErrInsufficientBalance
	}
	if err != nil {
		return nil, fmt.Errorf("failed to debit account %s: %w", userID, err)
	}

	return account, nil
}
