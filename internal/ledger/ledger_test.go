package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
	"github.com/mpetrov/stagtrip/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedParticipant(t *testing.T, store storage.Store, name string) string {
	t.Helper()
	p := &models.Participant{
		Name:       name,
		Email:      name + "@example.com",
		TripStatus: models.TripConfirmed,
	}
	if err := store.CreateParticipant(context.Background(), p); err != nil {
		t.Fatalf("failed to create participant: %v", err)
	}
	return p.ID
}

func seedAllocation(t *testing.T, store storage.Store, participantID, amount string) {
	t.Helper()
	ctx := context.Background()
	event := &models.Event{Title: "Event", TotalCost: decimal.Zero, SplitType: models.SplitCustom}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	rows := []models.CostAllocation{
		{EventID: event.ID, ParticipantID: participantID, Amount: dec(amount), Note: "test"},
	}
	if err := store.ReplaceAllocations(ctx, event.ID, rows); err != nil {
		t.Fatalf("failed to seed allocation: %v", err)
	}
}

func seedPayment(t *testing.T, store storage.Store, participantID, amount string, status models.PaymentStatus) {
	t.Helper()
	ctx := context.Background()
	p := &models.Payment{ParticipantID: participantID, Amount: dec(amount)}
	if err := store.CreatePayment(ctx, p); err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}
	if status != models.PaymentPending {
		if err := store.UpdatePaymentStatus(ctx, p.ID, status); err != nil {
			t.Fatalf("failed to transition payment: %v", err)
		}
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBalance_Consistency(t *testing.T) {
	store := newTestStore(t)
	id := seedParticipant(t, store, "alice")

	seedAllocation(t, store, id, "300")
	seedAllocation(t, store, id, "120.50")
	seedPayment(t, store, id, "200", models.PaymentConfirmed)
	seedPayment(t, store, id, "999", models.PaymentPending)  // must not count
	seedPayment(t, store, id, "999", models.PaymentRejected) // must not count

	b, err := New(store).Balance(context.Background(), id)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}

	if !b.TotalOwed.Equal(dec("420.50")) {
		t.Errorf("TotalOwed: expected 420.50, got %s", b.TotalOwed)
	}
	if !b.TotalPaid.Equal(dec("200")) {
		t.Errorf("TotalPaid: expected 200, got %s", b.TotalPaid)
	}
	if !b.Remaining.Equal(dec("220.50")) {
		t.Errorf("Remaining: expected 220.50, got %s", b.Remaining)
	}
}

func TestBalance_NegativeRemaining(t *testing.T) {
	store := newTestStore(t)
	id := seedParticipant(t, store, "bob")

	seedAllocation(t, store, id, "100")
	seedPayment(t, store, id, "150", models.PaymentConfirmed)

	b, err := New(store).Balance(context.Background(), id)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}

	// Overpayment surfaces as-is, never clamped to zero.
	if !b.Remaining.Equal(dec("-50")) {
		t.Errorf("Remaining: expected -50, got %s", b.Remaining)
	}
}

func TestBalance_UnknownParticipant(t *testing.T) {
	store := newTestStore(t)
	if _, err := New(store).Balance(context.Background(), "nobody"); err == nil {
		t.Error("expected error for unknown participant")
	}
}

func TestAllBalances(t *testing.T) {
	store := newTestStore(t)
	alice := seedParticipant(t, store, "alice")
	bob := seedParticipant(t, store, "bob")
	seedParticipant(t, store, "carl") // no rows at all

	seedAllocation(t, store, alice, "300")
	seedAllocation(t, store, bob, "300")
	seedPayment(t, store, bob, "300", models.PaymentConfirmed)

	balances, err := New(store).AllBalances(context.Background())
	if err != nil {
		t.Fatalf("AllBalances failed: %v", err)
	}

	if len(balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(balances))
	}
	// Ordered by name: alice, bob, carl.
	if !balances[0].Remaining.Equal(dec("300")) {
		t.Errorf("alice remaining: expected 300, got %s", balances[0].Remaining)
	}
	if !balances[1].Remaining.IsZero() {
		t.Errorf("bob remaining: expected 0, got %s", balances[1].Remaining)
	}
	if !balances[2].TotalOwed.IsZero() || !balances[2].TotalPaid.IsZero() {
		t.Errorf("carl should have an all-zero balance, got %+v", balances[2])
	}
}
