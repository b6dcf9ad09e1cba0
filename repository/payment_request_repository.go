package repository

import (
	"context"
	"errors"
	"fmt"

	"pointledger/database"
	"pointledger/models"

	"github.com/jackc/pgx/v5"
)

// PaymentRequestRepository implements the PaymentRequestRepository interface
type PaymentRequestRepository struct {
	q queryable
}

// NewPaymentRequestRepository creates a new payment request repository
func NewPaymentRequestRepository(db *database.DB) *PaymentRequestRepository {
	return &PaymentRequestRepository{q: db.Pool}
}

func newPaymentRequestRepositoryWithTx(tx queryable) *PaymentRequestRepository {
	return &PaymentRequestRepository{q: tx}
}

const paymentRequestColumns = `id, from_user_id, to_user_id, amount, note, status, transaction_id, created_at, updated_at`

func scanPaymentRequest(row pgx.Row) (*models.PaymentRequest, error) {
	var req models.PaymentRequest
	err := row.Scan(
		&req.ID,
		&req.FromUserID,
		&req.ToUserID,
		&req.Amount,
		&req.Note,
		&req.Status,
		&req.TransactionID,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PaymentRequestRepository) Create(ctx context.Context, req *models.PaymentRequest) error {
	query := `
		INSERT INTO payment_requests (` + paymentRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.Exec(ctx, query,
		req.ID,
		req.FromUserID,
		req.ToUserID,
		req.Amount,
		req.Note,
		req.Status,
		req.TransactionID,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment request: %w", err)
	}

	return nil
}

// GetByID locks the request row so concurrent accept/decline calls serialize
func (r *PaymentRequestRepository) GetByID(ctx context.Context, id string) (*models.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + ` FROM payment_requests WHERE id = $1 FOR UPDATE`

	req, err := scanPaymentRequest(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment request %s: %w", id, err)
	}

	return req, nil
}

func (r *PaymentRequestRepository) Update(ctx context.Context, req *models.PaymentRequest) error {
	query := `
		UPDATE payment_requests
		SET status = $2, transaction_id = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, req.ID, req.Status, req.TransactionID, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update payment request %s: %w", req.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment request %s not found", req.ID)
	}

	return nil
}

func (r *PaymentRequestRepository) ListPendingByUser(ctx context.Context, userID string) ([]*models.PaymentRequest, error) {
	query := `
		SELECT ` + paymentRequestColumns + `
		FROM payment_requests
		WHERE status = 'pending' AND (from_user_id = $1 OR to_user_id = $1)
		ORDER BY created_at DESC, seq DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.PaymentRequest, 0)
	for rows.Next() {
		req, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment requests: %w", err)
	}

	return requests, nil
}
