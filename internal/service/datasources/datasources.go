// Package datasources holds the pass-through data-access helpers between the
// page services and the remote gateway. Each helper fetches one dataset,
// reshapes it for rendering and swallows gateway failures into empty-result
// fallbacks so that a page always reaches a rendered state.
package datasources

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
)

// Service bundles the read helpers over one gateway client.
type Service struct {
	gw     gateway.Client
	logger *zap.Logger
}

// NewService wires a data source layer over the given gateway client.
func NewService(gw gateway.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gw: gw, logger: logger}
}

// Members returns every club member, or an empty list when the fetch fails.
func (s *Service) Members(ctx context.Context) []models.Member {
	members, err := s.gw.GetMembers(ctx)
	if err != nil {
		s.logger.Warn("members fetch failed, using empty list", zap.Error(err))
		return []models.Member{}
	}
	return members
}

// MembersByKind returns the members carrying the given role tag.
func (s *Service) MembersByKind(ctx context.Context, kind models.PersonKind) []models.Member {
	all := s.Members(ctx)
	filtered := make([]models.Member, 0, len(all))
	for _, m := range all {
		if m.Kind == kind {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// PlaneModels returns the aircraft model catalog.
func (s *Service) PlaneModels(ctx context.Context) []models.PlaneModel {
	planeModels, err := s.gw.GetPlaneModels(ctx)
	if err != nil {
		s.logger.Warn("plane models fetch failed, using empty list", zap.Error(err))
		return []models.PlaneModel{}
	}
	return planeModels
}

// Planes returns the aircraft inventory.
func (s *Service) Planes(ctx context.Context) []models.Plane {
	planes, err := s.gw.GetPlanes(ctx)
	if err != nil {
		s.logger.Warn("planes fetch failed, using empty list", zap.Error(err))
		return []models.Plane{}
	}
	return planes
}

// BillingRates returns every billing rate.
func (s *Service) BillingRates(ctx context.Context) []models.BillingRate {
	rates, err := s.gw.GetBillingRates(ctx)
	if err != nil {
		s.logger.Warn("billing rates fetch failed, using empty list", zap.Error(err))
		return []models.BillingRate{}
	}
	return rates
}

// Ledger returns the full financial ledger sorted newest-first by creation
// time, or an empty list when the fetch fails.
func (s *Service) Ledger(ctx context.Context) []models.LedgerEntry {
	entries, err := s.gw.GetFinancialLedger(ctx)
	if err != nil {
		s.logger.Warn("ledger fetch failed, using empty list", zap.Error(err))
		return []models.LedgerEntry{}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

// Transaction fetches the full single-row form of a ledger entry. Unlike the
// list helpers the error is returned: the details modal renders its own
// error panel with a retry.
func (s *Service) Transaction(ctx context.Context, id string) (*models.LedgerEntry, error) {
	return s.gw.GetFinancialTransaction(ctx, id)
}

// Person fetches the full per-role record behind a ledger entry.
func (s *Service) Person(ctx context.Context, kind models.PersonKind, id string) (*models.Person, error) {
	return s.gw.GetPersonByID(ctx, kind, id)
}

// FlightLog fetches the flight detail referenced by a ledger entry.
func (s *Service) FlightLog(ctx context.Context, id string) (*models.FlightLog, error) {
	return s.gw.GetFlightLogByID(ctx, id)
}

// ModelNames builds the id→name join map used to resolve plane model
// references for display.
func ModelNames(planeModels []models.PlaneModel) map[string]string {
	names := make(map[string]string, len(planeModels))
	for _, m := range planeModels {
		names[m.ID] = m.Name
	}
	return names
}
