// Package dashboard aggregates the landing page's summary figures from the
// remote gateway. Every figure degrades independently; the page never renders
// empty.
package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
)

// Provider is the read surface the dashboard needs. Unlike the finance page's
// data sources these return errors, so the service can substitute a
// per-card placeholder or, when everything fails, the static snapshot.
type Provider interface {
	GetMembers(ctx context.Context) ([]models.Member, error)
	GetPlanes(ctx context.Context) ([]models.Plane, error)
	CountUpcomingBookings(ctx context.Context) (int, error)
	GetMonthFlightHours(ctx context.Context, month time.Time) (float64, error)
	GetFinancialLedger(ctx context.Context) ([]models.LedgerEntry, error)
}

// Service computes the dashboard overview.
type Service struct {
	provider Provider
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a dashboard service instance.
func NewService(provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger, now: time.Now}
}

// Overview fetches the five aggregate figures concurrently. A failed fetch
// degrades its own card to a placeholder; if every fetch fails the compiled-in
// snapshot is returned instead.
func (s *Service) Overview(ctx context.Context) models.DashboardOverview {
	overview := models.DashboardOverview{}

	var mu sync.Mutex
	degrade := func(card string, err error) {
		s.logger.Warn("dashboard metric unavailable", zap.String("card", card), zap.Error(err))
		mu.Lock()
		overview.Degraded = append(overview.Degraded, card)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		members, err := s.provider.GetMembers(gctx)
		if err != nil {
			degrade("students", err)
			return nil
		}
		count := 0
		for _, m := range members {
			if m.Kind == models.PersonStudent {
				count++
			}
		}
		overview.StudentCount = count
		return nil
	})

	g.Go(func() error {
		planes, err := s.provider.GetPlanes(gctx)
		if err != nil {
			degrade("aircraft", err)
			return nil
		}
		count := 0
		for _, p := range planes {
			if p.Status == models.PlaneAvailable {
				count++
			}
		}
		overview.AvailableAircraft = count
		return nil
	})

	g.Go(func() error {
		count, err := s.provider.CountUpcomingBookings(gctx)
		if err != nil {
			degrade("bookings", err)
			return nil
		}
		overview.UpcomingBookings = count
		return nil
	})

	g.Go(func() error {
		hours, err := s.provider.GetMonthFlightHours(gctx, s.now())
		if err != nil {
			degrade("flight_hours", err)
			return nil
		}
		overview.MonthFlightHours = hours
		return nil
	})

	g.Go(func() error {
		ledger, err := s.provider.GetFinancialLedger(gctx)
		if err != nil {
			degrade("finance", err)
			overview.Finance = emptySummary()
			return nil
		}
		overview.Finance = s.summarize(ledger)
		return nil
	})

	_ = g.Wait()

	if len(overview.Degraded) == 5 {
		s.logger.Error("all dashboard metrics unavailable, serving static snapshot")
		return staticSnapshot()
	}
	return overview
}

// summarize derives the financial card from the ledger: pending totals per
// direction, the current month's settled cash flow and the five most recent
// transactions. All coercion runs through decimal arithmetic; absent values
// count as zero.
func (s *Service) summarize(ledger []models.LedgerEntry) models.FinancialSummary {
	summary := emptySummary()

	monthStart := s.monthStart()
	for _, entry := range ledger {
		switch entry.Status {
		case models.StatusPending, models.StatusOverdue:
			if entry.Direction == models.DirectionReceivable {
				summary.PendingReceivables = summary.PendingReceivables.Add(entry.Amount)
			} else {
				summary.PendingPayables = summary.PendingPayables.Add(entry.Amount)
			}
		case models.StatusPaid:
			if entry.PaidAt == nil || entry.PaidAt.Before(monthStart) {
				continue
			}
			if entry.Direction == models.DirectionReceivable {
				summary.MonthlyIncome = summary.MonthlyIncome.Add(entry.Amount)
			} else {
				summary.MonthlyExpenses = summary.MonthlyExpenses.Add(entry.Amount)
			}
		}
	}
	summary.NetCashFlow = summary.MonthlyIncome.Sub(summary.MonthlyExpenses)

	sorted := append([]models.LedgerEntry(nil), ledger...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	recent := len(sorted)
	if recent > 5 {
		recent = 5
	}
	summary.RecentTransactions = sorted[:recent]
	return summary
}

func (s *Service) monthStart() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func emptySummary() models.FinancialSummary {
	return models.FinancialSummary{
		PendingReceivables: decimal.Zero,
		PendingPayables:    decimal.Zero,
		MonthlyIncome:      decimal.Zero,
		MonthlyExpenses:    decimal.Zero,
		NetCashFlow:        decimal.Zero,
		RecentTransactions: []models.LedgerEntry{},
	}
}

// staticSnapshot is the hard-coded fallback shown when the gateway is
// entirely unreachable.
func staticSnapshot() models.DashboardOverview {
	return models.DashboardOverview{
		StudentCount:      24,
		AvailableAircraft: 3,
		UpcomingBookings:  8,
		MonthFlightHours:  142.5,
		Finance: models.FinancialSummary{
			PendingReceivables: decimal.NewFromInt(4250),
			PendingPayables:    decimal.NewFromInt(1830),
			MonthlyIncome:      decimal.NewFromInt(6400),
			MonthlyExpenses:    decimal.NewFromInt(2950),
			NetCashFlow:        decimal.NewFromInt(3450),
			RecentTransactions: []models.LedgerEntry{},
		},
		Degraded: []string{"students", "aircraft", "bookings", "flight_hours", "finance"},
	}
}
