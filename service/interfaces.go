package service

import (
	"context"
	"time"

	"pointledger/events"
	"pointledger/models"
)

// AccountRepository defines the interface for balance storage
type AccountRepository interface {
	// Get retrieves an account, returning nil if the user was never referenced
	Get(ctx context.Context, userID string) (*models.Account, error)

	// GetOrCreate retrieves an account, creating it with a zero balance if missing.
	// The boolean reports whether the account was created by this call.
	GetOrCreate(ctx context.Context, userID string, at time.Time) (*models.Account, bool, error)

	// Lock serializes concurrent writers on the given accounts until the unit of work ends
	Lock(ctx context.Context, userIDs ...string) error

	// Credit adds to a balance and stamps the last activity time
	Credit(ctx context.Context, userID string, amount int64, at time.Time) (*models.Account, error)

	// Debit removes from a balance, failing with ErrInsufficientBalance rather than going negative
	Debit(ctx context.Context, userID string, amount int64, at time.Time) (*models.Account, error)
}

// ProfileRepository defines the interface for profiles and the handle index
type ProfileRepository interface {
	// Get retrieves a profile, returning nil if missing
	Get(ctx context.Context, userID string) (*models.Profile, error)

	// GetOrCreate retrieves a profile, creating an empty one if missing
	GetOrCreate(ctx context.Context, userID string) (*models.Profile, error)

	// SetHandle releases the user's previous handle and claims the new one.
	// Fails with ErrHandleTaken if the lowercase form belongs to another user.
	SetHandle(ctx context.Context, userID string, handle string) error

	// SetDisplayName replaces the display name
	SetDisplayName(ctx context.Context, userID string, name string) error

	// ResolveHandle returns the owner of a handle, or "" if unclaimed
	ResolveHandle(ctx context.Context, handle string) (string, error)
}

// TransactionRepository defines the interface for the per-user transaction log
type TransactionRepository interface {
	// Append inserts at the head of the owner's log and evicts entries past TransactionLogCap
	Append(ctx context.Context, tx *models.Transaction) error

	// List returns the owner's log, most recent first
	List(ctx context.Context, userID string) ([]*models.Transaction, error)
}

// PaymentRequestRepository defines the interface for payment request storage
type PaymentRequestRepository interface {
	// Create stores a new request
	Create(ctx context.Context, req *models.PaymentRequest) error

	// GetByID retrieves a request, returning nil if missing
	GetByID(ctx context.Context, id string) (*models.PaymentRequest, error)

	// Update persists status changes
	Update(ctx context.Context, req *models.PaymentRequest) error

	// ListPendingByUser returns pending requests where the user is either side, newest first
	ListPendingByUser(ctx context.Context, userID string) ([]*models.PaymentRequest, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for one atomic ledger operation
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	ProfileRepository() ProfileRepository
	TransactionRepository() TransactionRepository
	PaymentRequestRepository() PaymentRequestRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UserService defines the interface for account, profile and activity operations
type UserService interface {
	// GetOrCreateUser returns the caller's account and profile, creating them on first use
	GetOrCreateUser(ctx context.Context, userID string) (*models.UserOverview, error)

	// GetProfile returns a user's profile
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// UpdateProfile sets the handle and/or display name. Nil fields are left untouched.
	UpdateProfile(ctx context.Context, userID string, handle *string, displayName *string) (*models.Profile, error)

	// ResolveHandle returns the profile owning a handle, or ErrNotFound
	ResolveHandle(ctx context.Context, handle string) (*models.Profile, error)

	// ListActivity returns the caller's transaction log, most recent first
	ListActivity(ctx context.Context, userID string) ([]*models.Transaction, error)
}

// GamblingService defines the interface for the payout game
type GamblingService interface {
	// Play draws an outcome and credits the payout
	Play(ctx context.Context, userID string) (*models.PlayResult, error)
}

// TransferService defines the interface for moving points
type TransferService interface {
	// Transfer sends amount to a handle or raw user id
	Transfer(ctx context.Context, senderID string, recipient string, amount int64, note string) (*models.TransferResult, error)

	// Withdraw removes amount from the balance as a simulated payout
	Withdraw(ctx context.Context, userID string, amount int64) (*models.WithdrawResult, error)
}

// PaymentRequestService defines the interface for the request lifecycle
type PaymentRequestService interface {
	// CreateRequest asks target (handle or raw id) to pay amount to the requester
	CreateRequest(ctx context.Context, requesterID string, target string, amount int64, note string) (*models.PaymentRequest, error)

	// AcceptRequest pays a pending request addressed to the payer
	AcceptRequest(ctx context.Context, payerID string, requestID string) (*models.PaymentRequest, *models.TransferResult, error)

	// DeclineRequest closes a pending request; either participant may decline
	DeclineRequest(ctx context.Context, callerID string, requestID string) (*models.PaymentRequest, error)

	// ListPendingRequests returns the caller's pending requests, newest first
	ListPendingRequests(ctx context.Context, userID string) ([]*models.PaymentRequest, error)
}
