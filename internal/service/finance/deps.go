package finance

import (
	"context"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
)

// DataProvider is the read surface the finance page needs. It is satisfied by
// the datasources service; every helper falls back to an empty result on
// gateway failure.
type DataProvider interface {
	Members(ctx context.Context) []models.Member
	PlaneModels(ctx context.Context) []models.PlaneModel
	Planes(ctx context.Context) []models.Plane
	BillingRates(ctx context.Context) []models.BillingRate
	Ledger(ctx context.Context) []models.LedgerEntry
	Transaction(ctx context.Context, id string) (*models.LedgerEntry, error)
	Person(ctx context.Context, kind models.PersonKind, id string) (*models.Person, error)
	FlightLog(ctx context.Context, id string) (*models.FlightLog, error)
}

// Gateway is the mutation surface used by the modal controllers, satisfied by
// the gateway API client.
type Gateway interface {
	InsertBillingRate(ctx context.Context, rate gateway.NewBillingRate) error
	UpdateBillingRate(ctx context.Context, rate models.BillingRate) error
	DeleteBillingRate(ctx context.Context, id string) error
	InsertFinancialTransaction(ctx context.Context, tx gateway.NewTransaction) (string, error)
	UpdateFinancialTransaction(ctx context.Context, id string, update gateway.TransactionUpdate) error
}
