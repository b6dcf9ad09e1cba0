package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies ledger failures so adapters can map them to a transport status
type ErrorKind string

const (
	KindInvalidAmount       ErrorKind = "InvalidAmount"
	KindInsufficientBalance ErrorKind = "InsufficientBalance"
	KindInvalidHandle       ErrorKind = "InvalidHandle"
	KindHandleTaken         ErrorKind = "HandleTaken"
	KindRecipientNotFound   ErrorKind = "RecipientNotFound"
	KindTargetNotFound      ErrorKind = "TargetNotFound"
	KindSelfTransfer        ErrorKind = "SelfTransfer"
	KindSelfRequest         ErrorKind = "SelfRequest"
	KindRequestNotFound     ErrorKind = "RequestNotFound"
	KindNotPayer            ErrorKind = "NotPayer"
	KindNotPending          ErrorKind = "NotPending"
	KindNoPermission        ErrorKind = "NoPermission"
	KindNotFound            ErrorKind = "NotFound"
	KindInvalidRequest      ErrorKind = "InvalidRequest"

	// KindInternal covers everything that is not a validation failure
	KindInternal ErrorKind = "Internal"
)

// LedgerError is a validation failure surfaced directly to the caller
type LedgerError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Is matches any LedgerError of the same kind, so errors.Is works against the sentinels
// below even when the message carries call-specific detail.
func (e *LedgerError) Is(target error) bool {
	var t *LedgerError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidAmount       = &LedgerError{Kind: KindInvalidAmount, Message: "amount must be a positive integer"}
	ErrInsufficientBalance = &LedgerError{Kind: KindInsufficientBalance, Message: "insufficient balance"}
	ErrInvalidHandle       = &LedgerError{Kind: KindInvalidHandle, Message: "handle must be 2-16 characters of letters, digits or underscore"}
	ErrHandleTaken         = &LedgerError{Kind: KindHandleTaken, Message: "handle is already taken"}
	ErrRecipientNotFound   = &LedgerError{Kind: KindRecipientNotFound, Message: "recipient not found"}
	ErrTargetNotFound      = &LedgerError{Kind: KindTargetNotFound, Message: "target user not found"}
	ErrSelfTransfer        = &LedgerError{Kind: KindSelfTransfer, Message: "cannot transfer to yourself"}
	ErrSelfRequest         = &LedgerError{Kind: KindSelfRequest, Message: "cannot request from yourself"}
	ErrRequestNotFound     = &LedgerError{Kind: KindRequestNotFound, Message: "payment request not found"}
	ErrNotPayer            = &LedgerError{Kind: KindNotPayer, Message: "only the payer can accept this request"}
	ErrNotPending          = &LedgerError{Kind: KindNotPending, Message: "payment request is no longer pending"}
	ErrNoPermission        = &LedgerError{Kind: KindNoPermission, Message: "you are not a participant of this request"}
	ErrNotFound            = &LedgerError{Kind: KindNotFound, Message: "not found"}
	ErrInvalidRequest      = &LedgerError{Kind: KindInvalidRequest, Message: "invalid request"}
)

// newError returns a LedgerError of the given kind with a formatted message
func newError(kind ErrorKind, format string, args ...any) *LedgerError {
	return &LedgerError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// insufficientBalance builds an InsufficientBalance failure with both amounts
func insufficientBalance(have, need int64) *LedgerError {
	return newError(KindInsufficientBalance, "insufficient balance: have %d, need %d", have, need)
}

// KindOf returns the kind of a ledger failure, or KindInternal for any other error
func KindOf(err error) ErrorKind {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of a ledger failure
func MessageOf(err error) string {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Message
	}
	return "internal error"
}
