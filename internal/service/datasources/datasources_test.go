package datasources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/pkg/clients/gateway"
)

var errGatewayDown = errors.New("gateway down")

// fakeGateway implements gateway.Client over fixed fixtures. Setting down
// fails every call.
type fakeGateway struct {
	down bool

	members     []models.Member
	planeModels []models.PlaneModel
	planes      []models.Plane
	rates       []models.BillingRate
	ledger      []models.LedgerEntry
}

func (f *fakeGateway) SignIn(context.Context, string, string) (*gateway.AuthSession, error) {
	return nil, errGatewayDown
}

func (f *fakeGateway) GetMembers(context.Context) ([]models.Member, error) {
	if f.down {
		return nil, errGatewayDown
	}
	return f.members, nil
}

func (f *fakeGateway) GetPlaneModels(context.Context) ([]models.PlaneModel, error) {
	if f.down {
		return nil, errGatewayDown
	}
	return f.planeModels, nil
}

func (f *fakeGateway) GetPlanes(context.Context) ([]models.Plane, error) {
	if f.down {
		return nil, errGatewayDown
	}
	return f.planes, nil
}

func (f *fakeGateway) GetBillingRates(context.Context) ([]models.BillingRate, error) {
	if f.down {
		return nil, errGatewayDown
	}
	return f.rates, nil
}

func (f *fakeGateway) InsertBillingRate(context.Context, gateway.NewBillingRate) error {
	return nil
}

func (f *fakeGateway) UpdateBillingRate(context.Context, models.BillingRate) error {
	return nil
}

func (f *fakeGateway) DeleteBillingRate(context.Context, string) error {
	return nil
}

func (f *fakeGateway) GetFinancialLedger(context.Context) ([]models.LedgerEntry, error) {
	if f.down {
		return nil, errGatewayDown
	}
	return f.ledger, nil
}

func (f *fakeGateway) GetFinancialTransaction(_ context.Context, id string) (*models.LedgerEntry, error) {
	if f.down {
		return nil, errGatewayDown
	}
	for i := range f.ledger {
		if f.ledger[i].ID == id {
			return &f.ledger[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeGateway) InsertFinancialTransaction(context.Context, gateway.NewTransaction) (string, error) {
	return "tx-1", nil
}

func (f *fakeGateway) UpdateFinancialTransaction(context.Context, string, gateway.TransactionUpdate) error {
	return nil
}

func (f *fakeGateway) GetPersonByID(context.Context, models.PersonKind, string) (*models.Person, error) {
	return nil, errGatewayDown
}

func (f *fakeGateway) GetFlightLogByID(context.Context, string) (*models.FlightLog, error) {
	return nil, errGatewayDown
}

func (f *fakeGateway) CountUpcomingBookings(context.Context) (int, error) {
	return 0, errGatewayDown
}

func (f *fakeGateway) GetMonthFlightHours(context.Context, time.Time) (float64, error) {
	return 0, errGatewayDown
}

func TestLedgerSortsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	gw := &fakeGateway{ledger: []models.LedgerEntry{
		{ID: "old", CreatedAt: base},
		{ID: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "middle", CreatedAt: base.Add(time.Hour)},
	}}
	svc := NewService(gw, nil)

	entries := svc.Ledger(context.Background())
	want := []string{"newest", "middle", "old"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("entry %d = %q, want %q", i, entries[i].ID, id)
		}
	}
}

func TestListHelpersSwallowErrors(t *testing.T) {
	svc := NewService(&fakeGateway{down: true}, nil)
	ctx := context.Background()

	if got := svc.Members(ctx); got == nil || len(got) != 0 {
		t.Errorf("Members on failure = %v, want empty list", got)
	}
	if got := svc.PlaneModels(ctx); got == nil || len(got) != 0 {
		t.Errorf("PlaneModels on failure = %v, want empty list", got)
	}
	if got := svc.Planes(ctx); got == nil || len(got) != 0 {
		t.Errorf("Planes on failure = %v, want empty list", got)
	}
	if got := svc.BillingRates(ctx); got == nil || len(got) != 0 {
		t.Errorf("BillingRates on failure = %v, want empty list", got)
	}
	if got := svc.Ledger(ctx); got == nil || len(got) != 0 {
		t.Errorf("Ledger on failure = %v, want empty list", got)
	}
}

func TestSingleRowHelpersReturnErrors(t *testing.T) {
	svc := NewService(&fakeGateway{down: true}, nil)
	ctx := context.Background()

	if _, err := svc.Transaction(ctx, "t1"); err == nil {
		t.Error("Transaction swallowed the gateway error")
	}
	if _, err := svc.Person(ctx, models.PersonStudent, "m1"); err == nil {
		t.Error("Person swallowed the gateway error")
	}
	if _, err := svc.FlightLog(ctx, "fl1"); err == nil {
		t.Error("FlightLog swallowed the gateway error")
	}
}

func TestMembersByKind(t *testing.T) {
	gw := &fakeGateway{members: []models.Member{
		{ID: "m1", Kind: models.PersonStudent},
		{ID: "m2", Kind: models.PersonInstructor},
		{ID: "m3", Kind: models.PersonStudent},
	}}
	svc := NewService(gw, nil)

	students := svc.MembersByKind(context.Background(), models.PersonStudent)
	if len(students) != 2 || students[0].ID != "m1" || students[1].ID != "m3" {
		t.Fatalf("students = %v", students)
	}
	if got := svc.MembersByKind(context.Background(), models.PersonOther); len(got) != 0 {
		t.Fatalf("other persons = %v, want none", got)
	}
}

func TestModelNames(t *testing.T) {
	names := ModelNames([]models.PlaneModel{
		{ID: "pm1", Name: "Cessna 172"},
		{ID: "pm2", Name: "Piper PA-28"},
	})
	if names["pm1"] != "Cessna 172" || names["pm2"] != "Piper PA-28" {
		t.Fatalf("names = %v", names)
	}
	if _, ok := names["pm3"]; ok {
		t.Fatal("unknown id present")
	}
}
