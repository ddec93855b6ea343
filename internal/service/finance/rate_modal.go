package finance

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/pkg/autocomplete"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
)

// RateModal is the add/edit billing-rate overlay. On first show it loads the
// aircraft model catalog as its autocomplete reference list; the list is kept
// across shows and only the per-show fields reset on Hide.
type RateModal struct {
	data   DataProvider
	gw     Gateway
	notify notifyFunc

	mu          sync.Mutex
	initialized bool
	visible     bool
	onDone      func()
	editing     *models.BillingRate
	planeModels []models.PlaneModel
}

func newRateModal(data DataProvider, gw Gateway, notify notifyFunc) *RateModal {
	return &RateModal{data: data, gw: gw, notify: notify}
}

// Show opens the modal, lazily loading the model catalog on the first call.
// A non-nil existing rate pre-fills the form for editing.
func (m *RateModal) Show(ctx context.Context, existing *models.BillingRate, onDone func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		m.planeModels = m.data.PlaneModels(ctx)
		m.initialized = true
	}

	m.editing = existing
	m.onDone = onDone
	m.visible = true
}

// Hide closes the modal and clears the per-show fields. The loaded model
// catalog is kept so a re-open does not rebuild it.
func (m *RateModal) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hideLocked()
}

func (m *RateModal) hideLocked() {
	m.visible = false
	m.onDone = nil
	m.editing = nil
}

// Visible reports whether the modal is currently shown.
func (m *RateModal) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// Editing returns the rate being edited, or nil in create mode.
func (m *RateModal) Editing() *models.BillingRate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editing
}

// ModelCandidates returns the autocomplete candidates matching the query.
func (m *RateModal) ModelCandidates(query string) []autocomplete.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modelCandidatesLocked(query)
}

func (m *RateModal) modelCandidatesLocked(query string) []autocomplete.Candidate {
	candidates := make([]autocomplete.Candidate, len(m.planeModels))
	for i, model := range m.planeModels {
		candidates[i] = autocomplete.Candidate{ID: model.ID, Display: model.Name}
	}
	return autocomplete.Filter(candidates, query)
}

// RateForm carries the user input of one submission attempt.
type RateForm struct {
	ModelInput  string          `json:"model_input"`
	ModelID     string          `json:"model_id"`
	RateType    models.RateType `json:"rate_type"`
	CustomName  string          `json:"custom_name"`
	Amount      string          `json:"amount"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
}

// Submit validates the form and performs the single insert or update
// mutation. Validation failures toast and abort before any gateway call; a
// gateway failure toasts and leaves the modal open with input intact.
func (m *RateModal) Submit(ctx context.Context, form RateForm) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.visible {
		return ErrModalNotOpen
	}

	model := autocomplete.Resolve(m.modelCandidatesLocked(""), form.ModelInput, form.ModelID)
	if !model.Resolved() {
		m.notify(models.ToastError, "Select an aircraft model from the list")
		return fmt.Errorf("%w: aircraft model", ErrUnresolvedReference)
	}

	if !form.RateType.Valid() {
		m.notify(models.ToastError, "Select a rate type")
		return fmt.Errorf("%w: rate type %q", ErrValidation, form.RateType)
	}

	// Enumerated types always store their fixed label; only "other" rates
	// carry the user-entered name.
	rateName, wellKnown := form.RateType.Label()
	if !wellKnown {
		rateName = strings.TrimSpace(form.CustomName)
		if rateName == "" {
			m.notify(models.ToastError, "Enter a name for the custom rate")
			return fmt.Errorf("%w: custom rate name", ErrValidation)
		}
	}

	amount, err := parseAmount(form.Amount)
	if err != nil {
		m.notify(models.ToastError, "Amount must be greater than 0")
		return err
	}

	if m.editing != nil {
		updated := models.BillingRate{
			ID:           m.editing.ID,
			PlaneModelID: model.ID,
			RateType:     form.RateType,
			RateName:     rateName,
			Amount:       amount,
			Description:  strings.TrimSpace(form.Description),
			Active:       form.Active,
		}
		if err := m.gw.UpdateBillingRate(ctx, updated); err != nil {
			m.notify(models.ToastError, "Could not update rate: "+err.Error())
			return err
		}
		m.notify(models.ToastSuccess, "Rate updated")
	} else {
		created := gateway.NewBillingRate{
			PlaneModelID: model.ID,
			RateType:     form.RateType,
			RateName:     rateName,
			Amount:       amount,
			Description:  strings.TrimSpace(form.Description),
			Active:       form.Active,
		}
		if err := m.gw.InsertBillingRate(ctx, created); err != nil {
			m.notify(models.ToastError, "Could not create rate: "+err.Error())
			return err
		}
		m.notify(models.ToastSuccess, "Rate created")
	}

	if m.onDone != nil {
		m.onDone()
	}
	m.hideLocked()
	return nil
}
