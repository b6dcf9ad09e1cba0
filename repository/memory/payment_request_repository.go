package memory

import (
	"context"
	"fmt"
	"sort"

	"pointledger/models"
)

type paymentRequestRepository struct {
	uow *unitOfWork
}

func (r *paymentRequestRepository) Create(ctx context.Context, req *models.PaymentRequest) error {
	store := r.uow.store
	if _, exists := store.requests[req.ID]; exists {
		return fmt.Errorf("payment request %s already exists", req.ID)
	}

	store.requestSeq++
	reqCopy := *req
	store.requests[req.ID] = &storedRequest{req: &reqCopy, seq: store.requestSeq}

	id := req.ID
	r.uow.record(func() {
		delete(store.requests, id)
		store.requestSeq--
	})

	return nil
}

func (r *paymentRequestRepository) GetByID(ctx context.Context, id string) (*models.PaymentRequest, error) {
	stored, ok := r.uow.store.requests[id]
	if !ok {
		return nil, nil
	}
	return copyRequest(stored.req), nil
}

func (r *paymentRequestRepository) Update(ctx context.Context, req *models.PaymentRequest) error {
	stored, ok := r.uow.store.requests[req.ID]
	if !ok {
		return fmt.Errorf("payment request %s not found", req.ID)
	}

	previous := stored.req
	r.uow.record(func() { stored.req = previous })
	stored.req = copyRequest(req)

	return nil
}

func (r *paymentRequestRepository) ListPendingByUser(ctx context.Context, userID string) ([]*models.PaymentRequest, error) {
	var matches []*storedRequest
	for _, stored := range r.uow.store.requests {
		if stored.req.IsPending() && stored.req.IsParticipant(userID) {
			matches = append(matches, stored)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.req.CreatedAt.Equal(b.req.CreatedAt) {
			return a.req.CreatedAt.After(b.req.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]*models.PaymentRequest, len(matches))
	for i, stored := range matches {
		result[i] = copyRequest(stored.req)
	}
	return result, nil
}

func copyRequest(req *models.PaymentRequest) *models.PaymentRequest {
	reqCopy := *req
	if req.TransactionID != nil {
		txID := *req.TransactionID
		reqCopy.TransactionID = &txID
	}
	return &reqCopy
}
