package events

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus()

	var first, second []InvoiceCreated
	bus.SubscribeInvoiceCreated(func(ev InvoiceCreated) { first = append(first, ev) })
	bus.SubscribeInvoiceCreated(func(ev InvoiceCreated) { second = append(second, ev) })

	event := InvoiceCreated{TransactionID: "t1", PersonID: "m1", Amount: decimal.NewFromInt(150)}
	bus.PublishInvoiceCreated(event)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("deliveries = %d/%d, want 1/1", len(first), len(second))
	}
	if first[0] != event {
		t.Fatalf("delivered = %+v, want %+v", first[0], event)
	}
}

func TestBusKeepsEventTypesSeparate(t *testing.T) {
	bus := NewBus()

	var invoices, payables int
	bus.SubscribeInvoiceCreated(func(InvoiceCreated) { invoices++ })
	bus.SubscribePayableCreated(func(PayableCreated) { payables++ })

	bus.PublishPayableCreated(PayableCreated{TransactionID: "t1"})

	if invoices != 0 {
		t.Errorf("invoice handler fired %d times for a payable event", invoices)
	}
	if payables != 1 {
		t.Errorf("payable handler fired %d times, want 1", payables)
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic.
	bus.PublishInvoiceCreated(InvoiceCreated{TransactionID: "t1"})
	bus.PublishPayableCreated(PayableCreated{TransactionID: "t2"})
}
