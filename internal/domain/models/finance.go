package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a ledger entry is money owed to the club or by it.
type Direction string

const (
	DirectionReceivable Direction = "receivable"
	DirectionPayable    Direction = "payable"
)

// Valid reports whether the direction is one of the two supported values.
func (d Direction) Valid() bool {
	return d == DirectionReceivable || d == DirectionPayable
}

// LedgerStatus is the settlement state of a ledger entry.
type LedgerStatus string

const (
	StatusPending   LedgerStatus = "pending"
	StatusPaid      LedgerStatus = "paid"
	StatusOverdue   LedgerStatus = "overdue"
	StatusCancelled LedgerStatus = "cancelled"
)

// PaymentMethod enumerates the accepted settlement methods.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCheck    PaymentMethod = "check"
	PaymentCard     PaymentMethod = "card"
	PaymentOther    PaymentMethod = "other"
)

// Valid reports whether the method belongs to the accepted set. Submissions
// carrying any other value are rejected before a mutation call is issued.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCheck, PaymentCard, PaymentOther:
		return true
	}
	return false
}

// LedgerEntry is one row of the financial ledger: a receivable or payable
// obligation, or its settlement. Entries unify invoices and payables in a
// single queried view.
type LedgerEntry struct {
	ID               string          `json:"id"`
	Direction        Direction       `json:"direction"`
	Type             string          `json:"type"`
	PersonID         string          `json:"person_id"`
	PersonKind       PersonKind      `json:"person_kind"`
	PersonName       string          `json:"person_name"`
	Amount           decimal.Decimal `json:"amount"`
	DueDate          time.Time       `json:"due_date"`
	Status           LedgerStatus    `json:"status"`
	Description      string          `json:"description"`
	PaymentMethod    PaymentMethod   `json:"payment_method,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	FlightLogID      string          `json:"flight_log_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Settled reports whether the entry has already been paid.
func (e LedgerEntry) Settled() bool {
	return e.Status == StatusPaid
}

// SignedAmount returns the amount with the sign implied by the direction:
// receivables positive, payables negative.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == DirectionPayable {
		return e.Amount.Neg()
	}
	return e.Amount
}
