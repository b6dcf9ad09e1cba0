package models

import (
	"time"
)

// PaymentRequestStatus represents the state of a payment request
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending   PaymentRequestStatus = "pending"
	PaymentRequestStatusCompleted PaymentRequestStatus = "completed"
	PaymentRequestStatusDeclined  PaymentRequestStatus = "declined"
)

// PaymentRequest asks ToUserID to pay Amount to FromUserID
type PaymentRequest struct {
	ID            string               `db:"id" json:"id"`
	FromUserID    string               `db:"from_user_id" json:"from"`
	ToUserID      string               `db:"to_user_id" json:"to"`
	Amount        int64                `db:"amount" json:"amount"`
	Note          string               `db:"note" json:"note"`
	Status        PaymentRequestStatus `db:"status" json:"status"`
	TransactionID *string              `db:"transaction_id" json:"transactionId,omitempty"`
	CreatedAt     time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time            `db:"updated_at" json:"updatedAt"`
}

// IsParticipant checks if a user is either side of the request
func (r *PaymentRequest) IsParticipant(userID string) bool {
	return r.FromUserID == userID || r.ToUserID == userID
}

// IsPending checks if the request can still be accepted or declined
func (r *PaymentRequest) IsPending() bool {
	return r.Status == PaymentRequestStatusPending
}

// IsIncoming reports whether userID is the one being asked to pay
func (r *PaymentRequest) IsIncoming(userID string) bool {
	return r.ToUserID == userID
}

// GetCounterpartyID returns the other participant for a given participant
func (r *PaymentRequest) GetCounterpartyID(userID string) string {
	if r.FromUserID == userID {
		return r.ToUserID
	}
	if r.ToUserID == userID {
		return r.FromUserID
	}
	return "" // Not a participant
}
