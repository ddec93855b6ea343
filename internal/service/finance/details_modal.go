package finance

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
)

// DetailsState is the render state of the transaction details modal.
type DetailsState string

const (
	DetailsLoading DetailsState = "loading"
	DetailsReady   DetailsState = "ready"
	DetailsError   DetailsState = "error"
)

// DetailsView is what the details modal renders: a pending-payment layout or
// a settled-transaction layout, plus the linked-person panel and, when the
// row bills flight time, the flight-route details.
type DetailsView struct {
	State   DetailsState        `json:"state"`
	Error   string              `json:"error,omitempty"`
	Entry   *models.LedgerEntry `json:"entry,omitempty"`
	Person  *models.Person      `json:"person,omitempty"`
	Flight  *models.FlightLog   `json:"flight,omitempty"`
	Settled bool                `json:"settled"`
}

// DetailsModal is the read-path overlay. The list view only carries a
// projection, so Show renders a loading state and Load re-fetches the full
// row by id before replacing it.
type DetailsModal struct {
	data   DataProvider
	logger *zap.Logger

	mu      sync.Mutex
	visible bool
	entryID string
	view    DetailsView
}

func newDetailsModal(data DataProvider, logger *zap.Logger) *DetailsModal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailsModal{data: data, logger: logger}
}

// Show opens the modal on the given row in its indeterminate loading state.
func (m *DetailsModal) Show(entryID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entryID = entryID
	m.view = DetailsView{State: DetailsLoading}
	m.visible = true
}

// Hide closes the modal and clears the per-show fields.
func (m *DetailsModal) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.visible = false
	m.entryID = ""
	m.view = DetailsView{}
}

// Visible reports whether the modal is currently shown.
func (m *DetailsModal) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// View returns the current render state.
func (m *DetailsModal) View() DetailsView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Load fetches the full ledger row, then the linked person and, when
// referenced, the flight detail. A row fetch failure replaces the content
// with an error panel; Retry re-runs the same fetch.
func (m *DetailsModal) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked(ctx)
}

func (m *DetailsModal) loadLocked(ctx context.Context) {
	if !m.visible {
		return
	}

	entry, err := m.data.Transaction(ctx, m.entryID)
	if err != nil {
		m.logger.Error("transaction details fetch failed",
			zap.String("transaction_id", m.entryID), zap.Error(err))
		m.view = DetailsView{State: DetailsError, Error: "Could not load transaction details"}
		return
	}

	view := DetailsView{
		State:   DetailsReady,
		Entry:   entry,
		Settled: entry.Settled(),
	}

	g, gctx := errgroup.WithContext(ctx)
	if entry.PersonID != "" && entry.PersonKind.Valid() {
		g.Go(func() error {
			person, err := m.data.Person(gctx, entry.PersonKind, entry.PersonID)
			if err != nil {
				// The person panel is omitted rather than failing the modal.
				m.logger.Warn("linked person fetch failed",
					zap.String("person_id", entry.PersonID), zap.Error(err))
				return nil
			}
			view.Person = person
			return nil
		})
	}
	if entry.FlightLogID != "" {
		g.Go(func() error {
			flight, err := m.data.FlightLog(gctx, entry.FlightLogID)
			if err != nil {
				m.logger.Warn("flight log fetch failed",
					zap.String("flight_log_id", entry.FlightLogID), zap.Error(err))
				return nil
			}
			view.Flight = flight
			return nil
		})
	}
	_ = g.Wait()

	m.view = view
}

// Retry re-runs the fetch after an error panel.
func (m *DetailsModal) Retry(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.visible {
		return
	}
	m.view = DetailsView{State: DetailsLoading}
	m.loadLocked(ctx)
}
