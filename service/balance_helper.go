package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pointledger/events"
	"pointledger/models"
)

// ensureUser returns the account and profile of a user, creating both on first reference
func ensureUser(ctx context.Context, uow UnitOfWork, userID string, at time.Time) (*models.Account, *models.Profile, error) {
	account, created, err := uow.AccountRepository().GetOrCreate(ctx, userID, at)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get account: %w", err)
	}
	if created {
		uow.EventBus().Publish(events.AccountCreatedEvent{UserID: userID})
	}

	profile, err := uow.ProfileRepository().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return account, profile, nil
}

// resolveUser maps a recipient selector to a user id: handle first, then raw id.
// Returns "" when nothing matches.
func resolveUser(ctx context.Context, uow UnitOfWork, selector string) (string, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return "", nil
	}

	if handle, err := ValidateHandle(selector); err == nil {
		userID, err := uow.ProfileRepository().ResolveHandle(ctx, HandleKey(handle))
		if err != nil {
			return "", fmt.Errorf("failed to resolve handle: %w", err)
		}
		if userID != "" {
			return userID, nil
		}
	}

	account, err := uow.AccountRepository().Get(ctx, selector)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if account == nil {
		return "", nil
	}
	return account.UserID, nil
}

// RecordTransaction appends a transaction to its owner's log and emits a balance change event.
// This is the single entry point for all balance changes in the ledger.
func RecordTransaction(ctx context.Context, uow UnitOfWork, tx *models.Transaction) error {
	if err := uow.TransactionRepository().Append(ctx, tx); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          tx.UserID,
		TransactionID:   tx.ID,
		OldBalance:      tx.BalanceAfter - tx.SignedAmount(),
		NewBalance:      tx.BalanceAfter,
		TransactionType: tx.Type,
		ChangeAmount:    tx.SignedAmount(),
	})

	return nil
}

// transferParams describes one movement of points between two existing users
type transferParams struct {
	SenderID    string
	RecipientID string
	Amount      int64
	Note        string
	RequestID   string
}

// executeTransfer moves points inside an open unit of work. Both Transfer and
// AcceptRequest go through here. The sender's balance is checked before any write
// so a failure never leaves a half-applied transfer behind.
func executeTransfer(ctx context.Context, uow UnitOfWork, src Sources, p transferParams) (*models.TransferResult, error) {
	ids := []string{p.SenderID, p.RecipientID}
	sort.Strings(ids)
	if err := uow.AccountRepository().Lock(ctx, ids...); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}

	now := src.Clock.Now()

	sender, senderProfile, err := ensureUser(ctx, uow, p.SenderID, now)
	if err != nil {
		return nil, err
	}
	_, recipientProfile, err := ensureUser(ctx, uow, p.RecipientID, now)
	if err != nil {
		return nil, err
	}

	if sender.Balance < p.Amount {
		return nil, insufficientBalance(sender.Balance, p.Amount)
	}

	updatedSender, err := uow.AccountRepository().Debit(ctx, p.SenderID, p.Amount, now)
	if err != nil {
		return nil, fmt.Errorf("failed to debit sender: %w", err)
	}
	updatedRecipient, err := uow.AccountRepository().Credit(ctx, p.RecipientID, p.Amount, now)
	if err != nil {
		return nil, fmt.Errorf("failed to credit recipient: %w", err)
	}

	txID := src.IDs.NewID()
	relatedID := func() *string {
		if p.RequestID == "" {
			return nil
		}
		id := p.RequestID
		return &id
	}

	sent := &models.Transaction{
		ID:           txID,
		UserID:       p.SenderID,
		Type:         models.TransactionTypeTransferSent,
		Direction:    models.DirectionDebit,
		Amount:       p.Amount,
		Counterparty: recipientProfile.Counterparty(),
		Note:         p.Note,
		BalanceAfter: updatedSender.Balance,
		RelatedID:    relatedID(),
		CreatedAt:    now,
	}
	if err := RecordTransaction(ctx, uow, sent); err != nil {
		return nil, fmt.Errorf("failed to record sender transaction: %w", err)
	}

	received := &models.Transaction{
		ID:           txID,
		UserID:       p.RecipientID,
		Type:         models.TransactionTypeTransferReceived,
		Direction:    models.DirectionCredit,
		Amount:       p.Amount,
		Counterparty: senderProfile.Counterparty(),
		Note:         p.Note,
		BalanceAfter: updatedRecipient.Balance,
		RelatedID:    relatedID(),
		CreatedAt:    now,
	}
	if err := RecordTransaction(ctx, uow, received); err != nil {
		return nil, fmt.Errorf("failed to record recipient transaction: %w", err)
	}

	uow.EventBus().Publish(events.TransferCompletedEvent{
		TransactionID: txID,
		SenderID:      p.SenderID,
		RecipientID:   p.RecipientID,
		Amount:        p.Amount,
		RequestID:     p.RequestID,
	})

	return &models.TransferResult{
		TransactionID:    txID,
		Amount:           p.Amount,
		SenderBalance:    updatedSender.Balance,
		RecipientBalance: updatedRecipient.Balance,
		Recipient:        recipientProfile.Counterparty(),
	}, nil
}
