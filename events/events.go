package events

import (
	"context"
	"sync"

	"pointledger/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the ledger
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeAccountCreated    EventType = "account_created"
	EventTypeTransferCompleted EventType = "transfer_completed"
	EventTypePaymentRequest    EventType = "payment_request_state_change"
	EventTypeHandleChanged     EventType = "handle_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted once per recorded transaction
type BalanceChangeEvent struct {
	UserID          string
	TransactionID   string
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent is emitted the first time a user id is referenced
type AccountCreatedEvent struct {
	UserID string
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// TransferCompletedEvent is emitted after both sides of a transfer are recorded
type TransferCompletedEvent struct {
	TransactionID string
	SenderID      string
	RecipientID   string
	Amount        int64
	RequestID     string // set when the transfer settled a payment request
}

func (e TransferCompletedEvent) Type() EventType {
	return EventTypeTransferCompleted
}

// PaymentRequestStateChangeEvent is emitted on creation and on every transition.
// OldStatus is empty for a newly created request.
type PaymentRequestStateChangeEvent struct {
	RequestID  string
	FromUserID string
	ToUserID   string
	Amount     int64
	Note       string
	OldStatus  models.PaymentRequestStatus
	NewStatus  models.PaymentRequestStatus
	// ActorID is the participant whose action caused the change
	ActorID string
}

func (e PaymentRequestStateChangeEvent) Type() EventType {
	return EventTypePaymentRequest
}

// HandleChangedEvent is emitted when a user claims or replaces a handle
type HandleChangedEvent struct {
	UserID    string
	OldHandle string
	NewHandle string
}

func (e HandleChangedEvent) Type() EventType {
	return EventTypeHandleChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines and must not assume ordering.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Pending returns the events queued so far
func (b *TransactionalBus) Pending() []Event {
	return b.pending
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	if len(b.pending) == 0 {
		return
	}

	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events to main event bus")

	// Handlers outlive the request that raised the event
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		if b.real != nil {
			b.real.Emit(eventCtx, ev)
		}
	}
	b.pending = nil
}

// Discard is called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
