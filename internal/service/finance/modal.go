package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
)

// ErrValidation indicates a submission was rejected before any gateway call.
var ErrValidation = errors.New("validation failed")

// ErrUnresolvedReference indicates an autocomplete-backed field carries no
// resolved candidate id. It is distinguished from generic validation failure
// so callers can message it separately.
var ErrUnresolvedReference = errors.New("reference not resolved")

// ErrModalNotOpen indicates a submission was attempted against a hidden modal.
var ErrModalNotOpen = errors.New("modal is not open")

// Modal is the lifecycle contract shared by every overlay controller: it owns
// exactly one on/off surface and performs at most one gateway mutation per
// user submission. Hide is idempotent and clears per-show fields without
// discarding first-show initialization. Implementations serialize their
// methods internally; the page may hide a modal from one request while
// another is submitting it.
type Modal interface {
	Hide()
	Visible() bool
}

// notifyFunc pushes a transient toast onto the owning page.
type notifyFunc func(level models.ToastLevel, message string)

const dateLayout = "2006-01-02"

// parseAmount coerces a user-entered amount, requiring a value strictly
// greater than zero.
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrValidation)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount is not a number", ErrValidation)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}
	return amount, nil
}

// parseDate coerces a date field in the picker's wire format.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrValidation)
	}

	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must use %s", ErrValidation, dateLayout)
	}
	return parsed, nil
}
