package finance

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/pkg/autocomplete"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
	"github.com/aeroclubhq/aeroclub/pkg/events"
)

// TransactionForm carries the user input of an invoice or payable submission.
type TransactionForm struct {
	PersonInput string `json:"person_input"`
	PersonID    string `json:"person_id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
}

// entryModal is the shared core of the invoice and payable modals: both
// create one ledger entry from a person reference, an amount and a due date,
// differing only in direction, candidate list and wording.
type entryModal struct {
	data   DataProvider
	gw     Gateway
	notify notifyFunc

	direction   models.Direction
	personNoun  string
	defaultType string

	mu          sync.Mutex
	initialized bool
	visible     bool
	onDone      func()
	members     []models.Member
}

func (m *entryModal) show(ctx context.Context, onDone func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		m.members = m.data.Members(ctx)
		m.initialized = true
	}
	m.onDone = onDone
	m.visible = true
}

func (m *entryModal) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hideLocked()
}

func (m *entryModal) hideLocked() {
	m.visible = false
	m.onDone = nil
}

func (m *entryModal) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

func (m *entryModal) personCandidates(query string) []autocomplete.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.personCandidatesLocked(query)
}

// personCandidatesLocked returns the autocomplete list for the person field.
// Invoices may target any member; payables only the roles the club pays.
func (m *entryModal) personCandidatesLocked(query string) []autocomplete.Candidate {
	candidates := make([]autocomplete.Candidate, 0, len(m.members))
	for _, member := range m.members {
		if m.direction == models.DirectionPayable && !payableKind(member.Kind) {
			continue
		}
		candidates = append(candidates, autocomplete.Candidate{ID: member.ID, Display: member.DisplayName()})
	}
	return autocomplete.Filter(candidates, query)
}

func payableKind(kind models.PersonKind) bool {
	switch kind {
	case models.PersonInstructor, models.PersonMaintenanceTechnician, models.PersonOther:
		return true
	}
	return false
}

func (m *entryModal) memberByID(id string) (models.Member, bool) {
	for _, member := range m.members {
		if member.ID == id {
			return member, true
		}
	}
	return models.Member{}, false
}

// submission is the outcome of a successful submit, feeding the creation
// event dispatched by the concrete modal.
type submission struct {
	TransactionID string
	PersonID      string
	Amount        decimal.Decimal
}

// submit validates and issues the single insert mutation.
func (m *entryModal) submit(ctx context.Context, form TransactionForm) (submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.visible {
		return submission{}, ErrModalNotOpen
	}

	person := autocomplete.Resolve(m.personCandidatesLocked(""), form.PersonInput, form.PersonID)
	if !person.Resolved() {
		m.notify(models.ToastError, "Select a "+m.personNoun+" from the list")
		return submission{}, fmt.Errorf("%w: %s", ErrUnresolvedReference, m.personNoun)
	}
	member, ok := m.memberByID(person.ID)
	if !ok {
		m.notify(models.ToastError, "Select a "+m.personNoun+" from the list")
		return submission{}, fmt.Errorf("%w: %s", ErrUnresolvedReference, m.personNoun)
	}

	amount, err := parseAmount(form.Amount)
	if err != nil {
		m.notify(models.ToastError, "Amount must be greater than 0")
		return submission{}, err
	}

	dueDate, err := parseDate(form.DueDate)
	if err != nil {
		m.notify(models.ToastError, "Due date is required")
		return submission{}, err
	}

	entryType := strings.TrimSpace(form.Type)
	if entryType == "" {
		entryType = m.defaultType
	}

	tx := gateway.NewTransaction{
		Direction:   m.direction,
		Type:        entryType,
		PersonID:    member.ID,
		PersonKind:  member.Kind,
		Amount:      amount,
		DueDate:     dueDate,
		Description: strings.TrimSpace(form.Description),
	}

	id, err := m.gw.InsertFinancialTransaction(ctx, tx)
	if err != nil {
		m.notify(models.ToastError, "Could not save: "+err.Error())
		return submission{}, err
	}

	if m.onDone != nil {
		m.onDone()
	}
	m.hideLocked()
	return submission{TransactionID: id, PersonID: member.ID, Amount: amount}, nil
}

// InvoiceModal creates receivable ledger entries.
type InvoiceModal struct {
	entryModal
	bus *events.Bus
}

func newInvoiceModal(data DataProvider, gw Gateway, bus *events.Bus, notify notifyFunc) *InvoiceModal {
	return &InvoiceModal{
		entryModal: entryModal{
			data:        data,
			gw:          gw,
			notify:      notify,
			direction:   models.DirectionReceivable,
			personNoun:  "member",
			defaultType: "invoice",
		},
		bus: bus,
	}
}

// Show opens the modal, lazily loading the member list on the first call.
func (m *InvoiceModal) Show(ctx context.Context, onDone func()) {
	m.show(ctx, onDone)
}

// PersonCandidates returns the member typeahead candidates for the query.
func (m *InvoiceModal) PersonCandidates(query string) []autocomplete.Candidate {
	return m.personCandidates(query)
}

// Submit creates the invoice and dispatches InvoiceCreated on success.
func (m *InvoiceModal) Submit(ctx context.Context, form TransactionForm) error {
	result, err := m.submit(ctx, form)
	if err != nil {
		return err
	}

	m.notify(models.ToastSuccess, "Invoice created")
	if m.bus != nil {
		m.bus.PublishInvoiceCreated(events.InvoiceCreated{
			TransactionID: result.TransactionID,
			PersonID:      result.PersonID,
			Amount:        result.Amount,
		})
	}
	return nil
}

// PayableModal creates payable ledger entries.
type PayableModal struct {
	entryModal
	bus *events.Bus
}

func newPayableModal(data DataProvider, gw Gateway, bus *events.Bus, notify notifyFunc) *PayableModal {
	return &PayableModal{
		entryModal: entryModal{
			data:        data,
			gw:          gw,
			notify:      notify,
			direction:   models.DirectionPayable,
			personNoun:  "payee",
			defaultType: "payable",
		},
		bus: bus,
	}
}

// Show opens the modal, lazily loading the member list on the first call.
func (m *PayableModal) Show(ctx context.Context, onDone func()) {
	m.show(ctx, onDone)
}

// PersonCandidates returns the payee typeahead candidates for the query.
func (m *PayableModal) PersonCandidates(query string) []autocomplete.Candidate {
	return m.personCandidates(query)
}

// Submit creates the payable and dispatches PayableCreated on success.
func (m *PayableModal) Submit(ctx context.Context, form TransactionForm) error {
	result, err := m.submit(ctx, form)
	if err != nil {
		return err
	}

	m.notify(models.ToastSuccess, "Payable created")
	if m.bus != nil {
		m.bus.PublishPayableCreated(events.PayableCreated{
			TransactionID: result.TransactionID,
			PersonID:      result.PersonID,
			Amount:        result.Amount,
		})
	}
	return nil
}
