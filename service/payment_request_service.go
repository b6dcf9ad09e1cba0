package service

import (
	"context"
	"fmt"
	"strings"

	"pointledger/events"
	"pointledger/models"

	log "github.com/sirupsen/logrus"
)

type paymentRequestService struct {
	uowFactory UnitOfWorkFactory
	src        Sources
}

// NewPaymentRequestService creates a new payment request service
func NewPaymentRequestService(uowFactory UnitOfWorkFactory, src Sources) PaymentRequestService {
	return &paymentRequestService{
		uowFactory: uowFactory,
		src:        src.withDefaults(),
	}
}

// CreateRequest records a pending request asking target to pay the requester
func (s *paymentRequestService) CreateRequest(ctx context.Context, requesterID string, target string, amount int64, note string) (*models.PaymentRequest, error) {
	// Validate inputs
	if requesterID == "" {
		return nil, newError(KindInvalidRequest, "requester id is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(target) == "" {
		return nil, ErrTargetNotFound
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	payerID, err := resolveUser(ctx, uow, target)
	if err != nil {
		return nil, err
	}
	if payerID == "" {
		return nil, ErrTargetNotFound
	}
	if payerID == requesterID {
		return nil, ErrSelfRequest
	}

	now := s.src.Clock.Now()
	if _, _, err := ensureUser(ctx, uow, requesterID, now); err != nil {
		return nil, err
	}

	req := &models.PaymentRequest{
		ID:         s.src.IDs.NewID(),
		FromUserID: requesterID,
		ToUserID:   payerID,
		Amount:     amount,
		Note:       cleanNote(note),
		Status:     models.PaymentRequestStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uow.PaymentRequestRepository().Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}

	uow.EventBus().Publish(events.PaymentRequestStateChangeEvent{
		RequestID:  req.ID,
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Amount:     req.Amount,
		Note:       req.Note,
		OldStatus:  "",
		NewStatus:  req.Status,
		ActorID:    req.FromUserID,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"requestID": req.ID,
		"from":      req.FromUserID,
		"to":        req.ToUserID,
		"amount":    req.Amount,
	}).Info("Payment request created")

	return req, nil
}

// AcceptRequest pays the requester through the same path as a direct transfer
func (s *paymentRequestService) AcceptRequest(ctx context.Context, payerID string, requestID string) (*models.PaymentRequest, *models.TransferResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.PaymentRequestRepository().GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get payment request: %w", err)
	}
	// Non-participants cannot tell a foreign request from a missing one
	if req == nil || !req.IsParticipant(payerID) {
		return nil, nil, ErrRequestNotFound
	}
	if !req.IsIncoming(payerID) {
		return nil, nil, ErrNotPayer
	}
	if !req.IsPending() {
		return nil, nil, ErrNotPending
	}

	result, err := executeTransfer(ctx, uow, s.src, transferParams{
		SenderID:    req.ToUserID,
		RecipientID: req.FromUserID,
		Amount:      req.Amount,
		Note:        req.Note,
		RequestID:   req.ID,
	})
	if err != nil {
		return nil, nil, err
	}

	oldStatus := req.Status
	req.Status = models.PaymentRequestStatusCompleted
	req.TransactionID = &result.TransactionID
	req.UpdatedAt = s.src.Clock.Now()
	if err := uow.PaymentRequestRepository().Update(ctx, req); err != nil {
		return nil, nil, fmt.Errorf("failed to update payment request: %w", err)
	}

	s.publishStateChange(uow, req, oldStatus, payerID)

	if err := uow.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"requestID":     req.ID,
		"transactionID": result.TransactionID,
		"amount":        req.Amount,
	}).Info("Payment request accepted")

	return req, result, nil
}

// DeclineRequest closes a pending request without moving points
func (s *paymentRequestService) DeclineRequest(ctx context.Context, callerID string, requestID string) (*models.PaymentRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.PaymentRequestRepository().GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment request: %w", err)
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if !req.IsParticipant(callerID) {
		return nil, ErrNoPermission
	}
	if !req.IsPending() {
		return nil, ErrNotPending
	}

	oldStatus := req.Status
	req.Status = models.PaymentRequestStatusDeclined
	req.UpdatedAt = s.src.Clock.Now()
	if err := uow.PaymentRequestRepository().Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update payment request: %w", err)
	}

	s.publishStateChange(uow, req, oldStatus, callerID)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"requestID": req.ID,
		"by":        callerID,
	}).Info("Payment request declined")

	return req, nil
}

// ListPendingRequests returns pending requests in either direction
func (s *paymentRequestService) ListPendingRequests(ctx context.Context, userID string) ([]*models.PaymentRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	requests, err := uow.PaymentRequestRepository().ListPendingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return requests, nil
}

func (s *paymentRequestService) publishStateChange(uow UnitOfWork, req *models.PaymentRequest, oldStatus models.PaymentRequestStatus, actorID string) {
	uow.EventBus().Publish(events.PaymentRequestStateChangeEvent{
		RequestID:  req.ID,
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Amount:     req.Amount,
		Note:       req.Note,
		OldStatus:  oldStatus,
		NewStatus:  req.Status,
		ActorID:    actorID,
	})
}
