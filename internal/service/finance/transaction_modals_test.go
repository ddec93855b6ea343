package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/pkg/events"
)

func TestInvoiceModalCreatesReceivableAndPublishes(t *testing.T) {
	data := &stubData{members: testMembers()}
	gw := &stubGateway{nextID: "tx-9"}
	bus := events.NewBus()
	ctrl := NewController(data, gw, bus, nil)
	ctrl.Load(context.Background())

	var published []events.InvoiceCreated
	bus.SubscribeInvoiceCreated(func(ev events.InvoiceCreated) { published = append(published, ev) })

	modal := ctrl.OpenInvoiceModal(context.Background())
	form := TransactionForm{
		PersonInput: "ada keita",
		Amount:      "150.00",
		DueDate:     "2026-04-01",
		Description: "March block hours",
	}
	if err := modal.Submit(context.Background(), form); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(gw.insertTxs) != 1 {
		t.Fatalf("insert mutations = %d, want 1", len(gw.insertTxs))
	}
	tx := gw.insertTxs[0]
	if tx.Direction != models.DirectionReceivable {
		t.Errorf("direction = %q, want receivable", tx.Direction)
	}
	if tx.PersonID != "m1" || tx.PersonKind != models.PersonStudent {
		t.Errorf("person = %q/%q, want m1/student", tx.PersonID, tx.PersonKind)
	}
	if tx.Type != "invoice" {
		t.Errorf("type = %q, want the invoice default", tx.Type)
	}
	if !tx.Amount.Equal(amount("150.00")) {
		t.Errorf("amount = %s, want 150.00", tx.Amount)
	}

	if len(published) != 1 {
		t.Fatalf("published events = %d, want 1", len(published))
	}
	if published[0].TransactionID != "tx-9" || published[0].PersonID != "m1" {
		t.Fatalf("event = %+v", published[0])
	}
	if modal.Visible() {
		t.Error("modal still open after successful submit")
	}
}

func TestInvoiceModalZeroAmountBlocksMutation(t *testing.T) {
	data := &stubData{members: testMembers()}
	gw := &stubGateway{}
	ctrl := newTestController(data, gw)
	ctrl.Load(context.Background())

	modal := ctrl.OpenInvoiceModal(context.Background())
	form := TransactionForm{
		PersonID:    "m1",
		PersonInput: "Ada Keita",
		Amount:      "0",
		DueDate:     "2026-04-01",
	}
	if err := modal.Submit(context.Background(), form); err == nil {
		t.Fatal("zero amount accepted")
	}
	if gw.mutationCount() != 0 {
		t.Fatal("gateway called despite zero amount")
	}
	if !modal.Visible() {
		t.Fatal("modal closed on validation failure")
	}

	toasts := ctrl.DrainToasts()
	if len(toasts) != 1 || toasts[0].Message != "Amount must be greater than 0" {
		t.Fatalf("toasts = %v", toasts)
	}
}

func TestInvoiceModalUnresolvedPersonBlocksMutation(t *testing.T) {
	data := &stubData{members: testMembers()}
	gw := &stubGateway{}
	ctrl := newTestController(data, gw)
	ctrl.Load(context.Background())

	modal := ctrl.OpenInvoiceModal(context.Background())
	form := TransactionForm{
		PersonInput: "nobody here",
		Amount:      "150.00",
		DueDate:     "2026-04-01",
	}
	if err := modal.Submit(context.Background(), form); !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("submit = %v, want ErrUnresolvedReference", err)
	}
	if gw.mutationCount() != 0 {
		t.Fatal("gateway called despite unresolved person")
	}
}

func TestInvoiceModalRequiresDueDate(t *testing.T) {
	data := &stubData{members: testMembers()}
	gw := &stubGateway{}
	ctrl := newTestController(data, gw)
	ctrl.Load(context.Background())

	modal := ctrl.OpenInvoiceModal(context.Background())
	for _, bad := range []string{"", "not-a-date", "01/04/2026"} {
		form := TransactionForm{PersonID: "m1", PersonInput: "Ada Keita", Amount: "150.00", DueDate: bad}
		if err := modal.Submit(context.Background(), form); err == nil {
			t.Errorf("due date %q accepted", bad)
		}
	}
	if gw.mutationCount() != 0 {
		t.Fatal("gateway called despite invalid due dates")
	}
}

func TestPayableModalCandidatesExcludeStudentsAndPilots(t *testing.T) {
	data := &stubData{members: testMembers()}
	ctrl := newTestController(data, &stubGateway{})
	ctrl.Load(context.Background())

	modal := ctrl.OpenPayableModal(context.Background())
	candidates := modal.PersonCandidates("")
	if len(candidates) != 2 {
		t.Fatalf("payee candidates = %d, want the two payable roles", len(candidates))
	}
	for _, c := range candidates {
		if c.ID == "m1" || c.ID == "m4" {
			t.Errorf("candidate %q belongs to a non-payable role", c.ID)
		}
	}

	// The invoice side keeps the full roster.
	ctrl.CloseActiveModal()
	invoice := ctrl.OpenInvoiceModal(context.Background())
	if got := invoice.PersonCandidates(""); len(got) != 4 {
		t.Fatalf("invoice candidates = %d, want all members", len(got))
	}
}

func TestPayableModalCreatesPayableAndPublishes(t *testing.T) {
	data := &stubData{members: testMembers()}
	gw := &stubGateway{nextID: "tx-3"}
	bus := events.NewBus()
	ctrl := NewController(data, gw, bus, nil)
	ctrl.Load(context.Background())

	var published []events.PayableCreated
	bus.SubscribePayableCreated(func(ev events.PayableCreated) { published = append(published, ev) })

	modal := ctrl.OpenPayableModal(context.Background())
	form := TransactionForm{
		PersonID:    "m2",
		PersonInput: "Bakary Sow",
		Type:        "instructor_fee",
		Amount:      "320.00",
		DueDate:     "2026-03-15",
	}
	if err := modal.Submit(context.Background(), form); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	tx := gw.insertTxs[0]
	if tx.Direction != models.DirectionPayable {
		t.Errorf("direction = %q, want payable", tx.Direction)
	}
	if tx.Type != "instructor_fee" {
		t.Errorf("type = %q, want the user-entered type", tx.Type)
	}
	if len(published) != 1 || published[0].TransactionID != "tx-3" {
		t.Fatalf("published events = %v", published)
	}
}

func TestPayableModalRejectsNonPayableSelection(t *testing.T) {
	data := &stubData{members: testMembers()}
	gw := &stubGateway{}
	ctrl := newTestController(data, gw)
	ctrl.Load(context.Background())

	modal := ctrl.OpenPayableModal(context.Background())
	// m1 is a student: present in the roster but not a payable candidate.
	form := TransactionForm{
		PersonID:    "m1",
		PersonInput: "Ada Keita",
		Amount:      "100.00",
		DueDate:     "2026-03-15",
	}
	if err := modal.Submit(context.Background(), form); !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("submit = %v, want ErrUnresolvedReference", err)
	}
	if gw.mutationCount() != 0 {
		t.Fatal("gateway called for a non-payable person")
	}
}
