package repository

import (
	"context"
	"errors"
	"fmt"

	"pointledger/database"
	"pointledger/models"
	"pointledger/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the postgres SQLSTATE for a unique index conflict
const uniqueViolation = "23505"

// ProfileRepository implements the ProfileRepository interface
type ProfileRepository struct {
	q queryable
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{q: db.Pool}
}

func newProfileRepositoryWithTx(tx queryable) *ProfileRepository {
	return &ProfileRepository{q: tx}
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, COALESCE(handle, ''), display_name
		FROM profiles
		WHERE user_id = $1
	`

	var profile models.Profile
	err := r.q.QueryRow(ctx, query, userID).Scan(&profile.UserID, &profile.Handle, &profile.DisplayName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
	}

	return &profile, nil
}

// GetOrCreate inserts an empty profile; the account row must already exist
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.q.Exec(ctx, query, userID); err != nil {
		return nil, fmt.Errorf("failed to create profile %s: %w", userID, err)
	}

	return r.Get(ctx, userID)
}

// SetHandle swaps the handle in one statement. The unique index on LOWER(handle)
// rejects a handle owned by someone else.
func (r *ProfileRepository) SetHandle(ctx context.Context, userID string, handle string) error {
	query := `UPDATE profiles SET handle = $2 WHERE user_id = $1`

	result, err := r.q.Exec(ctx, query, userID, handle)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return service.ErrHandleTaken
		}
		return fmt.Errorf("failed to set handle for %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", userID)
	}

	return nil
}

func (r *ProfileRepository) SetDisplayName(ctx context.Context, userID string, name string) error {
	query := `UPDATE profiles SET display_name = $2 WHERE user_id = $1`

	result, err := r.q.Exec(ctx, query, userID, name)
	if err != nil {
		return fmt.Errorf("failed to set display name for %s: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", userID)
	}

	return nil
}

func (r *ProfileRepository) ResolveHandle(ctx context.Context, handle string) (string, error) {
	query := `SELECT user_id FROM profiles WHERE LOWER(handle) = LOWER($1)`

	var userID string
	err := r.q.QueryRow(ctx, query, handle).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve handle %s: %w", handle, err)
	}

	return userID, nil
}
