package gateway

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
)

// AuthSession is the successful result of a password sign-in.
type AuthSession struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// NewBillingRate is the payload of the insert_billing_rate procedure.
type NewBillingRate struct {
	PlaneModelID string          `json:"plane_model_id"`
	RateType     models.RateType `json:"rate_type"`
	RateName     string          `json:"rate_name"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
	Active       bool            `json:"active"`
}

// NewTransaction is the payload of the insert_financial_transaction procedure.
type NewTransaction struct {
	Direction   models.Direction  `json:"direction"`
	Type        string            `json:"type"`
	PersonID    string            `json:"person_id"`
	PersonKind  models.PersonKind `json:"person_kind"`
	Amount      decimal.Decimal   `json:"amount"`
	DueDate     time.Time         `json:"due_date"`
	Description string            `json:"description,omitempty"`
}

// TransactionUpdate carries the mutable fields of update_financial_transaction.
// Nil/empty fields are omitted so the backend only touches what was sent.
type TransactionUpdate struct {
	Status           models.LedgerStatus  `json:"status,omitempty"`
	PaymentMethod    models.PaymentMethod `json:"payment_method,omitempty"`
	PaymentReference string               `json:"payment_reference,omitempty"`
	PaidAt           *time.Time           `json:"paid_at,omitempty"`
	Amount           *decimal.Decimal     `json:"amount,omitempty"`
	DueDate          *time.Time           `json:"due_date,omitempty"`
	Description      string               `json:"description,omitempty"`
}
