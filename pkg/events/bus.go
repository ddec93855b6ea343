// Package events carries the application-level signals dispatched by the
// modal controllers and consumed by the owning page, decoupling the two
// without a direct reference.
package events

import (
	"sync"

	"github.com/shopspring/decimal"
)

// InvoiceCreated is published after a successful invoice submission.
type InvoiceCreated struct {
	TransactionID string
	PersonID      string
	Amount        decimal.Decimal
}

// PayableCreated is published after a successful payable submission.
type PayableCreated struct {
	TransactionID string
	PersonID      string
	Amount        decimal.Decimal
}

// Bus is a minimal synchronous publish/subscribe hub with typed payloads.
// Handlers run on the publishing goroutine, mirroring single-threaded event
// dispatch.
type Bus struct {
	mu          sync.RWMutex
	invoiceSubs []func(InvoiceCreated)
	payableSubs []func(PayableCreated)
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// SubscribeInvoiceCreated registers a handler for invoice creations.
func (b *Bus) SubscribeInvoiceCreated(handler func(InvoiceCreated)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.invoiceSubs = append(b.invoiceSubs, handler)
}

// SubscribePayableCreated registers a handler for payable creations.
func (b *Bus) SubscribePayableCreated(handler func(PayableCreated)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payableSubs = append(b.payableSubs, handler)
}

// PublishInvoiceCreated delivers the event to every subscriber.
func (b *Bus) PublishInvoiceCreated(event InvoiceCreated) {
	b.mu.RLock()
	subs := make([]func(InvoiceCreated), len(b.invoiceSubs))
	copy(subs, b.invoiceSubs)
	b.mu.RUnlock()

	for _, handler := range subs {
		handler(event)
	}
}

// PublishPayableCreated delivers the event to every subscriber.
func (b *Bus) PublishPayableCreated(event PayableCreated) {
	b.mu.RLock()
	subs := make([]func(PayableCreated), len(b.payableSubs))
	copy(subs, b.payableSubs)
	b.mu.RUnlock()

	for _, handler := range subs {
		handler(event)
	}
}
