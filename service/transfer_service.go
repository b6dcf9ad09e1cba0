package service

import (
	"context"
	"fmt"
	"strings"

	"pointledger/models"

	log "github.com/sirupsen/logrus"
)

type transferService struct {
	uowFactory UnitOfWorkFactory
	src        Sources
}

// NewTransferService creates a new transfer service
func NewTransferService(uowFactory UnitOfWorkFactory, src Sources) TransferService {
	return &transferService{
		uowFactory: uowFactory,
		src:        src.withDefaults(),
	}
}

func (s *transferService) Transfer(ctx context.Context, senderID string, recipient string, amount int64, note string) (*models.TransferResult, error) {
	// Validate inputs
	if senderID == "" {
		return nil, newError(KindInvalidRequest, "sender id is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(recipient) == "" {
		return nil, ErrRecipientNotFound
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	recipientID, err := resolveUser(ctx, uow, recipient)
	if err != nil {
		return nil, err
	}
	if recipientID == "" {
		return nil, ErrRecipientNotFound
	}
	if recipientID == senderID {
		return nil, ErrSelfTransfer
	}

	result, err := executeTransfer(ctx, uow, s.src, transferParams{
		SenderID:    senderID,
		RecipientID: recipientID,
		Amount:      amount,
		Note:        cleanNote(note),
	})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"transactionID": result.TransactionID,
		"from":          senderID,
		"to":            recipientID,
		"amount":        amount,
	}).Info("Transfer completed")

	return result, nil
}

// Withdraw rejects amounts above the balance instead of clamping them
func (s *transferService) Withdraw(ctx context.Context, userID string, amount int64) (*models.WithdrawResult, error) {
	if userID == "" {
		return nil, newError(KindInvalidRequest, "user id is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.AccountRepository().Lock(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	now := s.src.Clock.Now()
	account, _, err := ensureUser(ctx, uow, userID, now)
	if err != nil {
		return nil, err
	}
	if account.Balance < amount {
		return nil, insufficientBalance(account.Balance, amount)
	}

	updated, err := uow.AccountRepository().Debit(ctx, userID, amount, now)
	if err != nil {
		return nil, fmt.Errorf("failed to debit withdrawal: %w", err)
	}

	withdrawalID := s.src.IDs.NewID()
	tx := &models.Transaction{
		ID:           s.src.IDs.NewID(),
		UserID:       userID,
		Type:         models.TransactionTypeWithdraw,
		Direction:    models.DirectionDebit,
		Amount:       amount,
		Note:         "Withdrawal",
		BalanceAfter: updated.Balance,
		RelatedID:    &withdrawalID,
		CreatedAt:    now,
	}
	if err := RecordTransaction(ctx, uow, tx); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"withdrawalID": withdrawalID,
		"userID":       userID,
		"amount":       amount,
	}).Info("Withdrawal recorded")

	return &models.WithdrawResult{
		WithdrawalID: withdrawalID,
		Amount:       amount,
		NewBalance:   updated.Balance,
	}, nil
}
