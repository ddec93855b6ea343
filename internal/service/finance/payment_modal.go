package finance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
)

// PaymentPrefill carries the ledger-row fields the payment modal opens with.
type PaymentPrefill struct {
	TransactionID string           `json:"transaction_id"`
	Direction     models.Direction `json:"direction"`
	Amount        decimal.Decimal  `json:"amount"`
}

// PaymentForm carries the user input of a payment submission.
type PaymentForm struct {
	Method    models.PaymentMethod `json:"method"`
	Reference string               `json:"reference"`
	Notes     string               `json:"notes"`
}

// PaymentModal records the settlement of a pending ledger row. It performs
// exactly one update mutation flipping the row to paid.
type PaymentModal struct {
	gw     Gateway
	notify notifyFunc
	now    func() time.Time

	mu      sync.Mutex
	visible bool
	prefill PaymentPrefill
	onDone  func()
}

func newPaymentModal(gw Gateway, notify notifyFunc, now func() time.Time) *PaymentModal {
	if now == nil {
		now = time.Now
	}
	return &PaymentModal{gw: gw, notify: notify, now: now}
}

// Show opens the modal pre-filled with the row being settled.
func (m *PaymentModal) Show(prefill PaymentPrefill, onDone func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prefill = prefill
	m.onDone = onDone
	m.visible = true
}

// Hide closes the modal and clears the per-show fields.
func (m *PaymentModal) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hideLocked()
}

func (m *PaymentModal) hideLocked() {
	m.visible = false
	m.prefill = PaymentPrefill{}
	m.onDone = nil
}

// Visible reports whether the modal is currently shown.
func (m *PaymentModal) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// Prefill returns the row fields the modal was opened with.
func (m *PaymentModal) Prefill() PaymentPrefill {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefill
}

// Submit validates the payment method and issues the update mutation marking
// the row as paid.
func (m *PaymentModal) Submit(ctx context.Context, form PaymentForm) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.visible {
		return ErrModalNotOpen
	}

	if !form.Method.Valid() {
		m.notify(models.ToastError, "Payment method must be cash, transfer, check, card or other")
		return fmt.Errorf("%w: payment method %q", ErrValidation, form.Method)
	}

	paidAt := m.now().UTC()
	update := gateway.TransactionUpdate{
		Status:           models.StatusPaid,
		PaymentMethod:    form.Method,
		PaymentReference: strings.TrimSpace(form.Reference),
		PaidAt:           &paidAt,
	}
	if notes := strings.TrimSpace(form.Notes); notes != "" {
		update.Description = notes
	}

	if err := m.gw.UpdateFinancialTransaction(ctx, m.prefill.TransactionID, update); err != nil {
		m.notify(models.ToastError, "Could not record payment: "+err.Error())
		return err
	}

	m.notify(models.ToastSuccess, "Payment recorded")
	if m.onDone != nil {
		m.onDone()
	}
	m.hideLocked()
	return nil
}
