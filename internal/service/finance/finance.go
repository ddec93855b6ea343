// Package finance implements the finance page: a state machine over a fixed
// view set plus the five modal controllers that mutate the ledger and the
// billing rates through the remote gateway.
package finance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/internal/service/datasources"
	"github.com/aeroclubhq/aeroclub/pkg/autocomplete"
	"github.com/aeroclubhq/aeroclub/pkg/events"
)

// View names one of the finance tabs. Exactly one is active at a time.
type View string

const (
	ViewOverview     View = "overview"
	ViewReceivable   View = "receivable"
	ViewPayable      View = "payable"
	ViewTransactions View = "transactions"
	ViewRates        View = "rates"
)

// Valid reports whether the view belongs to the fixed view set.
func (v View) Valid() bool {
	switch v {
	case ViewOverview, ViewReceivable, ViewPayable, ViewTransactions, ViewRates:
		return true
	}
	return false
}

// StatusFilter narrows a finance table by settlement status.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterPending StatusFilter = "pending"
	FilterPaid    StatusFilter = "paid"
)

// Valid reports whether the filter is one of the supported values.
func (f StatusFilter) Valid() bool {
	return f == FilterAll || f == FilterPending || f == FilterPaid
}

// PageState is the explicit view/filter state of one finance page instance.
// The two named status filters persist across re-renders of the same view
// until page teardown; the member filter resets on every data reload.
type PageState struct {
	ActiveView       View                   `json:"active_view"`
	ReceivableFilter StatusFilter           `json:"receivable_filter"`
	PayableFilter    StatusFilter           `json:"payable_filter"`
	MemberFilter     autocomplete.Selection `json:"member_filter"`
}

// TableRow pairs a ledger entry with its visibility under the active filters.
// Filtering toggles visibility instead of re-deriving the row set.
type TableRow struct {
	Entry   models.LedgerEntry `json:"entry"`
	Visible bool               `json:"visible"`
}

// StatusCounts carries the per-view filter chip counts.
type StatusCounts struct {
	All     int `json:"all"`
	Pending int `json:"pending"`
	Paid    int `json:"paid"`
}

// OverviewStats backs the overview tab's summary cards.
type OverviewStats struct {
	PendingReceivableTotal decimal.Decimal      `json:"pending_receivable_total"`
	PendingPayableTotal    decimal.Decimal      `json:"pending_payable_total"`
	PendingReceivableCount int                  `json:"pending_receivable_count"`
	PendingPayableCount    int                  `json:"pending_payable_count"`
	RecentTransactions     []models.LedgerEntry `json:"recent_transactions"`
}

// RateSlot is one of the three well-known rate positions of a model group. A
// nil Rate renders as an "add" affordance.
type RateSlot struct {
	Type  models.RateType     `json:"type"`
	Label string              `json:"label"`
	Rate  *models.BillingRate `json:"rate,omitempty"`
}

// ModelRateGroup is the rates view grouping for one aircraft model.
type ModelRateGroup struct {
	ModelID    string               `json:"model_id"`
	ModelName  string               `json:"model_name"`
	Slots      []RateSlot           `json:"slots"`
	Additional []models.BillingRate `json:"additional"`
}

// Controller owns one finance page instance: its loaded datasets, its
// view/filter state and the single active modal. One controller serves one
// authenticated session; all methods are safe for the interleaved requests a
// browser produces. Each modal guards its own state with its own lock, and
// the controller never holds c.mu across a modal call; modals in turn may
// call back into the controller (toasts, refresh queueing).
type Controller struct {
	data   DataProvider
	gw     Gateway
	bus    *events.Bus
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	loaded bool
	torn   bool

	state        PageState
	needsRefresh bool

	ledger      []models.LedgerEntry
	receivable  []models.LedgerEntry
	payable     []models.LedgerEntry
	rates       []models.BillingRate
	planes      []models.Plane
	planeModels []models.PlaneModel
	members     []models.Member

	activeModal  Modal
	rateModal    *RateModal
	invoiceModal *InvoiceModal
	payableModal *PayableModal
	paymentModal *PaymentModal
	detailsModal *DetailsModal

	pendingRateDelete string
	toasts            []models.Toast
}

// NewController wires a finance page instance and subscribes it to the
// creation events its modals dispatch.
func NewController(data DataProvider, gw Gateway, bus *events.Bus, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		data:   data,
		gw:     gw,
		bus:    bus,
		logger: logger,
		now:    time.Now,
		state: PageState{
			ActiveView:       ViewOverview,
			ReceivableFilter: FilterAll,
			PayableFilter:    FilterAll,
		},
	}

	c.rateModal = newRateModal(data, gw, c.notify)
	c.invoiceModal = newInvoiceModal(data, gw, bus, c.notify)
	c.payableModal = newPayableModal(data, gw, bus, c.notify)
	c.paymentModal = newPaymentModal(gw, c.notify, func() time.Time { return c.now() })
	c.detailsModal = newDetailsModal(data, logger)

	if bus != nil {
		bus.SubscribeInvoiceCreated(func(events.InvoiceCreated) { c.queueRefresh() })
		bus.SubscribePayableCreated(func(events.PayableCreated) { c.queueRefresh() })
	}

	return c
}

// Load fetches the five page datasets concurrently and derives the
// receivable/payable subsets. Subsequent view switches work entirely off the
// in-memory arrays.
func (c *Controller) Load(ctx context.Context) {
	var (
		ledger      []models.LedgerEntry
		rates       []models.BillingRate
		planes      []models.Plane
		planeModels []models.PlaneModel
		members     []models.Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { ledger = c.data.Ledger(gctx); return nil })
	g.Go(func() error { rates = c.data.BillingRates(gctx); return nil })
	g.Go(func() error { planes = c.data.Planes(gctx); return nil })
	g.Go(func() error { planeModels = c.data.PlaneModels(gctx); return nil })
	g.Go(func() error { members = c.data.Members(gctx); return nil })
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.torn {
		return
	}

	c.ledger = ledger
	c.rates = rates
	c.planes = planes
	c.planeModels = planeModels
	c.members = members
	c.receivable, c.payable = splitByDirection(ledger)
	c.loaded = true
	c.needsRefresh = false

	// Data reloads drop the member filter; the named status filters persist
	// until teardown.
	c.state.MemberFilter = autocomplete.Selection{}

	c.logger.Debug("finance page loaded",
		zap.Int("ledger", len(ledger)),
		zap.Int("rates", len(rates)),
		zap.Int("members", len(members)))
}

// RefreshIfNeeded reloads the page data when a modal signalled a creation
// event since the last load.
func (c *Controller) RefreshIfNeeded(ctx context.Context) {
	c.mu.Lock()
	queued := c.needsRefresh
	c.mu.Unlock()

	if queued {
		c.Load(ctx)
	}
}

func (c *Controller) queueRefresh() {
	c.mu.Lock()
	c.needsRefresh = true
	c.mu.Unlock()
}

func splitByDirection(ledger []models.LedgerEntry) (receivable, payable []models.LedgerEntry) {
	receivable = make([]models.LedgerEntry, 0, len(ledger))
	payable = make([]models.LedgerEntry, 0, len(ledger))
	for _, entry := range ledger {
		switch entry.Direction {
		case models.DirectionReceivable:
			receivable = append(receivable, entry)
		case models.DirectionPayable:
			payable = append(payable, entry)
		}
	}
	return receivable, payable
}

// SwitchView activates one of the finance tabs. Counts and rows for the new
// view derive from the already-loaded arrays; no gateway call is made.
func (c *Controller) SwitchView(view View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !view.Valid() {
		c.notifyLocked(models.ToastError, "Unknown finance view")
		return
	}
	c.state.ActiveView = view
}

// SetStatusFilter updates the status filter of the receivable or payable
// table. The value is held per table and survives re-renders of the view.
func (c *Controller) SetStatusFilter(view View, filter StatusFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !filter.Valid() {
		c.notifyLocked(models.ToastError, "Unknown status filter")
		return
	}

	switch view {
	case ViewReceivable:
		c.state.ReceivableFilter = filter
	case ViewPayable:
		c.state.PayableFilter = filter
	default:
		c.notifyLocked(models.ToastError, "This table has no status filter")
	}
}

// SetMemberFilter resolves the typeahead input against the member list and
// stores the selection. An emptied input clears the filter.
func (c *Controller) SetMemberFilter(input, selectedID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.MemberFilter = autocomplete.Resolve(c.memberCandidatesLocked(), input, selectedID)
}

// MemberCandidates returns the typeahead candidates matching the query.
func (c *Controller) MemberCandidates(query string) []autocomplete.Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()

	return autocomplete.Filter(c.memberCandidatesLocked(), query)
}

func (c *Controller) memberCandidatesLocked() []autocomplete.Candidate {
	candidates := make([]autocomplete.Candidate, len(c.members))
	for i, m := range c.members {
		candidates[i] = autocomplete.Candidate{ID: m.ID, Display: m.DisplayName()}
	}
	return candidates
}

// State returns a copy of the page's view/filter state.
func (c *Controller) State() PageState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Rows returns the table rows of the given view with visibility already
// applied: a row is visible iff it passes the view's status filter AND the
// member filter.
func (c *Controller) Rows(view View) []TableRow {
	c.mu.Lock()
	defer c.mu.Unlock()

	var entries []models.LedgerEntry
	filter := FilterAll
	switch view {
	case ViewReceivable:
		entries = c.receivable
		filter = c.state.ReceivableFilter
	case ViewPayable:
		entries = c.payable
		filter = c.state.PayableFilter
	case ViewTransactions:
		entries = c.ledger
	default:
		return nil
	}

	rows := make([]TableRow, len(entries))
	for i, entry := range entries {
		rows[i] = TableRow{
			Entry:   entry,
			Visible: rowVisible(entry, filter, c.state.MemberFilter),
		}
	}
	return rows
}

func rowVisible(entry models.LedgerEntry, filter StatusFilter, member autocomplete.Selection) bool {
	switch filter {
	case FilterPending:
		if entry.Status != models.StatusPending {
			return false
		}
	case FilterPaid:
		if entry.Status != models.StatusPaid {
			return false
		}
	}

	if member.Resolved() && entry.PersonID != member.ID {
		return false
	}
	return true
}

// Counts derives the filter chip counts of the given view from the in-memory
// arrays.
func (c *Controller) Counts(view View) StatusCounts {
	c.mu.Lock()
	defer c.mu.Unlock()

	var entries []models.LedgerEntry
	switch view {
	case ViewReceivable:
		entries = c.receivable
	case ViewPayable:
		entries = c.payable
	case ViewTransactions:
		entries = c.ledger
	}

	counts := StatusCounts{All: len(entries)}
	for _, entry := range entries {
		switch entry.Status {
		case models.StatusPending:
			counts.Pending++
		case models.StatusPaid:
			counts.Paid++
		}
	}
	return counts
}

// Overview derives the overview tab's summary cards.
func (c *Controller) Overview() OverviewStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := OverviewStats{
		PendingReceivableTotal: decimal.Zero,
		PendingPayableTotal:    decimal.Zero,
	}
	for _, entry := range c.ledger {
		if entry.Status != models.StatusPending {
			continue
		}
		switch entry.Direction {
		case models.DirectionReceivable:
			stats.PendingReceivableTotal = stats.PendingReceivableTotal.Add(entry.Amount)
			stats.PendingReceivableCount++
		case models.DirectionPayable:
			stats.PendingPayableTotal = stats.PendingPayableTotal.Add(entry.Amount)
			stats.PendingPayableCount++
		}
	}

	recent := len(c.ledger)
	if recent > 5 {
		recent = 5
	}
	stats.RecentTransactions = append([]models.LedgerEntry(nil), c.ledger[:recent]...)
	return stats
}

// RatesView groups the billing rates by resolved aircraft-model name. Every
// model of the catalog gets the three well-known slots; rates of any other
// type list underneath as additional rates.
func (c *Controller) RatesView() []ModelRateGroup {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := datasources.ModelNames(c.planeModels)
	byModel := make(map[string][]models.BillingRate)
	for _, rate := range c.rates {
		if _, ok := names[rate.PlaneModelID]; !ok {
			c.logger.Debug("skipping rate with unresolved model", zap.String("rate_id", rate.ID))
			continue
		}
		byModel[rate.PlaneModelID] = append(byModel[rate.PlaneModelID], rate)
	}

	groups := make([]ModelRateGroup, 0, len(c.planeModels))
	for _, model := range c.planeModels {
		group := ModelRateGroup{ModelID: model.ID, ModelName: model.Name}

		rates := byModel[model.ID]
		for _, rateType := range models.WellKnownRateTypes {
			label, _ := rateType.Label()
			slot := RateSlot{Type: rateType, Label: label}
			for i := range rates {
				if rates[i].RateType == rateType {
					slot.Rate = &rates[i]
					break
				}
			}
			group.Slots = append(group.Slots, slot)
		}

		for _, rate := range rates {
			if _, wellKnown := rate.RateType.Label(); !wellKnown {
				group.Additional = append(group.Additional, rate)
			}
		}

		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].ModelName < groups[j].ModelName })
	return groups
}

// setActiveModal force-closes whatever modal is currently tracked as active
// before activating the new one. Only one modal may be open at a time. Hide
// takes the modal's own lock, so it runs after c.mu is released.
func (c *Controller) setActiveModal(m Modal) {
	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		m.Hide()
		return
	}
	prev := c.activeModal
	c.activeModal = m
	c.mu.Unlock()

	if prev != nil && prev != m {
		prev.Hide()
	}
}

// CloseActiveModal hides the open modal, if any.
func (c *Controller) CloseActiveModal() {
	c.mu.Lock()
	active := c.activeModal
	c.activeModal = nil
	c.mu.Unlock()

	if active != nil {
		active.Hide()
	}
}

// OpenRateModal shows the add/edit rate modal, pre-filled when editing an
// existing rate.
func (c *Controller) OpenRateModal(ctx context.Context, rateID string) *RateModal {
	c.mu.Lock()
	modal := c.rateModal
	if c.torn || modal == nil {
		c.mu.Unlock()
		return nil
	}
	var existing *models.BillingRate
	if rateID != "" {
		for i := range c.rates {
			if c.rates[i].ID == rateID {
				found := c.rates[i]
				existing = &found
				break
			}
		}
	}
	c.mu.Unlock()

	if rateID != "" && existing == nil {
		c.notify(models.ToastError, "Rate not found")
		return nil
	}

	modal.Show(ctx, existing, func() { c.queueRefresh() })
	c.setActiveModal(modal)
	return modal
}

// OpenInvoiceModal shows the create-invoice modal.
func (c *Controller) OpenInvoiceModal(ctx context.Context) *InvoiceModal {
	c.mu.Lock()
	modal := c.invoiceModal
	torn := c.torn
	c.mu.Unlock()
	if torn || modal == nil {
		return nil
	}

	modal.Show(ctx, func() { c.queueRefresh() })
	c.setActiveModal(modal)
	return modal
}

// OpenPayableModal shows the create-payable modal.
func (c *Controller) OpenPayableModal(ctx context.Context) *PayableModal {
	c.mu.Lock()
	modal := c.payableModal
	torn := c.torn
	c.mu.Unlock()
	if torn || modal == nil {
		return nil
	}

	modal.Show(ctx, func() { c.queueRefresh() })
	c.setActiveModal(modal)
	return modal
}

// MarkPaid opens the payment modal pre-filled from the given ledger row.
func (c *Controller) MarkPaid(entryID string) *PaymentModal {
	c.mu.Lock()
	modal := c.paymentModal
	if c.torn || modal == nil {
		c.mu.Unlock()
		return nil
	}
	var entry *models.LedgerEntry
	for i := range c.ledger {
		if c.ledger[i].ID == entryID {
			found := c.ledger[i]
			entry = &found
			break
		}
	}
	c.mu.Unlock()

	if entry == nil {
		c.notify(models.ToastError, "Transaction not found")
		return nil
	}
	if entry.Settled() {
		c.notify(models.ToastInfo, "Transaction is already paid")
		return nil
	}

	prefill := PaymentPrefill{
		TransactionID: entry.ID,
		Direction:     entry.Direction,
		Amount:        entry.Amount,
	}
	modal.Show(prefill, func() { c.queueRefresh() })
	c.setActiveModal(modal)
	return modal
}

// OpenDetails shows the transaction details modal in its loading state and
// fetches the full row.
func (c *Controller) OpenDetails(ctx context.Context, entryID string) *DetailsModal {
	c.mu.Lock()
	modal := c.detailsModal
	torn := c.torn
	c.mu.Unlock()
	if torn || modal == nil {
		return nil
	}

	modal.Show(entryID)
	c.setActiveModal(modal)
	modal.Load(ctx)
	return modal
}

// RequestRateDelete records the pending delete and returns the confirmation
// prompt. The mutation is only issued by ConfirmRateDelete.
func (c *Controller) RequestRateDelete(rateID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.rates {
		if c.rates[i].ID == rateID {
			c.pendingRateDelete = rateID
			return "Delete rate \"" + c.rates[i].RateName + "\"? This cannot be undone."
		}
	}

	c.notifyLocked(models.ToastError, "Rate not found")
	return ""
}

// CancelRateDelete drops a pending delete request.
func (c *Controller) CancelRateDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingRateDelete = ""
}

// ConfirmRateDelete issues the delete mutation for the previously requested
// rate, then reloads the page data.
func (c *Controller) ConfirmRateDelete(ctx context.Context) error {
	c.mu.Lock()
	rateID := c.pendingRateDelete
	c.pendingRateDelete = ""
	c.mu.Unlock()

	if rateID == "" {
		c.notify(models.ToastError, "No rate delete pending confirmation")
		return ErrValidation
	}

	if err := c.gw.DeleteBillingRate(ctx, rateID); err != nil {
		c.logger.Error("rate delete failed", zap.String("rate_id", rateID), zap.Error(err))
		c.notify(models.ToastError, "Could not delete rate: "+err.Error())
		return err
	}

	c.notify(models.ToastSuccess, "Rate deleted")
	c.Load(ctx)
	return nil
}

// Teardown discards every modal reference and clears the page state. It is
// idempotent; a second call is a no-op.
func (c *Controller) Teardown() {
	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		return
	}
	c.torn = true

	modals := []Modal{c.rateModal, c.invoiceModal, c.payableModal, c.paymentModal, c.detailsModal}
	c.activeModal = nil
	c.rateModal = nil
	c.invoiceModal = nil
	c.payableModal = nil
	c.paymentModal = nil
	c.detailsModal = nil

	c.ledger = nil
	c.receivable = nil
	c.payable = nil
	c.rates = nil
	c.planes = nil
	c.planeModels = nil
	c.members = nil
	c.loaded = false
	c.state = PageState{
		ActiveView:       ViewOverview,
		ReceivableFilter: FilterAll,
		PayableFilter:    FilterAll,
	}
	c.mu.Unlock()

	for _, m := range modals {
		if m != nil {
			m.Hide()
		}
	}
}

// Loaded reports whether page data has been fetched at least once.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// ActiveModalName names the currently open modal, or "" when none is open.
func (c *Controller) ActiveModalName() string {
	c.mu.Lock()
	active := c.activeModal
	rate, invoice, payable := c.rateModal, c.invoiceModal, c.payableModal
	payment, details := c.paymentModal, c.detailsModal
	c.mu.Unlock()

	if active == nil || !active.Visible() {
		return ""
	}
	switch {
	case rate != nil && active == Modal(rate):
		return "rate"
	case invoice != nil && active == Modal(invoice):
		return "invoice"
	case payable != nil && active == Modal(payable):
		return "payable"
	case payment != nil && active == Modal(payment):
		return "payment"
	case details != nil && active == Modal(details):
		return "details"
	}
	return ""
}

// RateModalHandle returns the rate modal while it is open, else nil.
func (c *Controller) RateModalHandle() *RateModal {
	c.mu.Lock()
	modal := c.rateModal
	c.mu.Unlock()
	if modal != nil && modal.Visible() {
		return modal
	}
	return nil
}

// InvoiceModalHandle returns the invoice modal while it is open, else nil.
func (c *Controller) InvoiceModalHandle() *InvoiceModal {
	c.mu.Lock()
	modal := c.invoiceModal
	c.mu.Unlock()
	if modal != nil && modal.Visible() {
		return modal
	}
	return nil
}

// PayableModalHandle returns the payable modal while it is open, else nil.
func (c *Controller) PayableModalHandle() *PayableModal {
	c.mu.Lock()
	modal := c.payableModal
	c.mu.Unlock()
	if modal != nil && modal.Visible() {
		return modal
	}
	return nil
}

// PaymentModalHandle returns the payment modal while it is open, else nil.
func (c *Controller) PaymentModalHandle() *PaymentModal {
	c.mu.Lock()
	modal := c.paymentModal
	c.mu.Unlock()
	if modal != nil && modal.Visible() {
		return modal
	}
	return nil
}

// DetailsModalHandle returns the details modal while it is open, else nil.
func (c *Controller) DetailsModalHandle() *DetailsModal {
	c.mu.Lock()
	modal := c.detailsModal
	c.mu.Unlock()
	if modal != nil && modal.Visible() {
		return modal
	}
	return nil
}

func (c *Controller) notify(level models.ToastLevel, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifyLocked(level, message)
}

func (c *Controller) notifyLocked(level models.ToastLevel, message string) {
	c.toasts = append(c.toasts, models.Toast{Level: level, Message: message})
}

// DrainToasts returns the queued transient notifications and clears the queue.
func (c *Controller) DrainToasts() []models.Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	drained := c.toasts
	c.toasts = nil
	return drained
}
