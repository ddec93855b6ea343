package finance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
)

// stubData is an in-memory DataProvider recording fetch counts.
type stubData struct {
	mu          sync.Mutex
	members     []models.Member
	planeModels []models.PlaneModel
	planes      []models.Plane
	rates       []models.BillingRate
	ledger      []models.LedgerEntry

	tx     *models.LedgerEntry
	txErr  error
	person *models.Person
	flight *models.FlightLog

	ledgerCalls int
}

func (s *stubData) Members(context.Context) []models.Member         { return s.members }
func (s *stubData) PlaneModels(context.Context) []models.PlaneModel { return s.planeModels }
func (s *stubData) Planes(context.Context) []models.Plane           { return s.planes }
func (s *stubData) BillingRates(context.Context) []models.BillingRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rates
}

func (s *stubData) Ledger(context.Context) []models.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgerCalls++
	return s.ledger
}

func (s *stubData) Transaction(context.Context, string) (*models.LedgerEntry, error) {
	if s.txErr != nil {
		return nil, s.txErr
	}
	if s.tx == nil {
		return nil, errors.New("no transaction configured")
	}
	return s.tx, nil
}

func (s *stubData) Person(context.Context, models.PersonKind, string) (*models.Person, error) {
	if s.person == nil {
		return nil, errors.New("no person configured")
	}
	return s.person, nil
}

func (s *stubData) FlightLog(context.Context, string) (*models.FlightLog, error) {
	if s.flight == nil {
		return nil, errors.New("no flight configured")
	}
	return s.flight, nil
}

func (s *stubData) setLedger(entries []models.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = entries
}

func (s *stubData) ledgerFetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgerCalls
}

// txUpdate records one update_financial_transaction call.
type txUpdate struct {
	ID     string
	Update gateway.TransactionUpdate
}

// stubGateway records every mutation call.
type stubGateway struct {
	mu          sync.Mutex
	insertRates []gateway.NewBillingRate
	updateRates []models.BillingRate
	deleteRates []string
	insertTxs   []gateway.NewTransaction
	updateTxs   []txUpdate

	err    error
	nextID string
}

func (g *stubGateway) InsertBillingRate(_ context.Context, rate gateway.NewBillingRate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.insertRates = append(g.insertRates, rate)
	return nil
}

func (g *stubGateway) UpdateBillingRate(_ context.Context, rate models.BillingRate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.updateRates = append(g.updateRates, rate)
	return nil
}

func (g *stubGateway) DeleteBillingRate(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.deleteRates = append(g.deleteRates, id)
	return nil
}

func (g *stubGateway) InsertFinancialTransaction(_ context.Context, tx gateway.NewTransaction) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.insertTxs = append(g.insertTxs, tx)
	if g.nextID == "" {
		return "tx-1", nil
	}
	return g.nextID, nil
}

func (g *stubGateway) UpdateFinancialTransaction(_ context.Context, id string, update gateway.TransactionUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.updateTxs = append(g.updateTxs, txUpdate{ID: id, Update: update})
	return nil
}

func (g *stubGateway) mutationCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.insertRates) + len(g.updateRates) + len(g.deleteRates) + len(g.insertTxs) + len(g.updateTxs)
}

// Fixtures shared across the package tests.

func amount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func entry(id string, direction models.Direction, status models.LedgerStatus, personID string, createdAt time.Time) models.LedgerEntry {
	return models.LedgerEntry{
		ID:         id,
		Direction:  direction,
		Type:       "invoice",
		PersonID:   personID,
		PersonKind: models.PersonStudent,
		PersonName: "Member " + personID,
		Amount:     amount("100"),
		DueDate:    createdAt.AddDate(0, 1, 0),
		Status:     status,
		CreatedAt:  createdAt,
	}
}

func testMembers() []models.Member {
	return []models.Member{
		{ID: "m1", FirstName: "Ada", LastName: "Keita", Email: "ada@club.test", Kind: models.PersonStudent},
		{ID: "m2", FirstName: "Bakary", LastName: "Sow", Email: "bakary@club.test", Kind: models.PersonInstructor},
		{ID: "m3", FirstName: "Carla", LastName: "Mendes", Email: "carla@club.test", Kind: models.PersonMaintenanceTechnician},
		{ID: "m4", FirstName: "Demba", LastName: "Ba", Email: "demba@club.test", Kind: models.PersonRegularPilot},
	}
}

func testPlaneModels() []models.PlaneModel {
	return []models.PlaneModel{
		{ID: "pm1", Name: "Cessna 172"},
		{ID: "pm2", Name: "Piper PA-28"},
	}
}
