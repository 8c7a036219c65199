package allocation

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"
	"time"

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

// seedRoster creates n trip-confirmed participants plus a trip-confirmed
// groom, returning the participant IDs (groom last).
func seedRoster(t *testing.T, store storage.Store, n int) []string {
	t.Helper()
	ctx := context.Background()
	ids := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		p := &models.Participant{
			Name:       fmt.Sprintf("Guest %02d", i),
			Email:      fmt.Sprintf("guest%02d@example.com", i),
			TripStatus: models.TripConfirmed,
		}
		if err := store.CreateParticipant(ctx, p); err != nil {
			t.Fatalf("failed to create participant: %v", err)
		}
		ids = append(ids, p.ID)
	}
	groom := &models.Participant{
		Name:       "The Groom",
		Email:      "groom@example.com",
		TripStatus: models.TripConfirmed,
		IsGroom:    true,
	}
	if err := store.CreateParticipant(ctx, groom); err != nil {
		t.Fatalf("failed to create groom: %v", err)
	}
	return append(ids, groom.ID)
}

func seedEvent(t *testing.T, store storage.Store, e *models.Event) *models.Event {
	t.Helper()
	if err := store.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return e
}

// rowKey serializes an allocation row so row sets can be compared exactly.
func rowKey(a models.CostAllocation) string {
	return fmt.Sprintf("%s|%s|%s|%s", a.EventID, a.ParticipantID, a.Amount.String(), a.Note)
}

func rowKeys(rows []models.CostAllocation) []string {
	keys := make([]string, len(rows))
	for i, a := range rows {
		keys[i] = rowKey(a)
	}
	return keys
}

func TestEngine_WorkedExample(t *testing.T) {
	// $1500 even split, groom excluded, 5 confirmed attendees + attending
	// groom: each of the 5 pays $300, groom pays $0. One guest declines:
	// remaining 4 pay $375, groom still $0.
	store := newTestStore(t)
	ctx := context.Background()
	ids := seedRoster(t, store, 5)
	groomID := ids[5]

	event := seedEvent(t, store, &models.Event{
		Title:        "Karting",
		TotalCost:    decimal.NewFromInt(1500),
		SplitType:    models.SplitEven,
		IsMandatory:  true,
		ExcludeGroom: true,
	})

	engine := NewEngine(store)
	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	rows, err := store.ListEventAllocations(ctx, event.ID)
	if err != nil {
		t.Fatalf("failed to list allocations: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows (5 payers + groom), got %d", len(rows))
	}
	for _, a := range rows {
		want := "300"
		if a.ParticipantID == groomID {
			want = "0"
		}
		if a.Amount.String() != want {
			t.Errorf("%s: expected %s, got %s", a.ParticipantID, want, a.Amount)
		}
	}

	// One attendee declines the trip.
	if err := store.UpdateTripStatus(ctx, ids[0], models.TripDeclined); err != nil {
		t.Fatalf("failed to update trip status: %v", err)
	}
	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	rows, err = store.ListEventAllocations(ctx, event.ID)
	if err != nil {
		t.Fatalf("failed to list allocations: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows after decline, got %d", len(rows))
	}
	for _, a := range rows {
		if a.ParticipantID == ids[0] {
			t.Errorf("declined participant should have no row")
		}
		want := "375"
		if a.ParticipantID == groomID {
			want = "0"
		}
		if a.Amount.String() != want {
			t.Errorf("%s: expected %s, got %s", a.ParticipantID, want, a.Amount)
		}
	}
}

func TestEngine_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedRoster(t, store, 3)

	event := seedEvent(t, store, &models.Event{
		Title:        "Dinner",
		TotalCost:    decimal.NewFromInt(100),
		SplitType:    models.SplitEven,
		IsMandatory:  true,
		ExcludeGroom: true,
	})

	engine := NewEngine(store)
	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("first Recompute failed: %v", err)
	}
	first, err := store.ListEventAllocations(ctx, event.ID)
	if err != nil {
		t.Fatalf("failed to list allocations: %v", err)
	}

	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("second Recompute failed: %v", err)
	}
	second, err := store.ListEventAllocations(ctx, event.ID)
	if err != nil {
		t.Fatalf("failed to list allocations: %v", err)
	}

	firstKeys, secondKeys := rowKeys(first), rowKeys(second)
	if len(firstKeys) != len(secondKeys) {
		t.Fatalf("row counts differ: %d vs %d", len(firstKeys), len(secondKeys))
	}
	for i := range firstKeys {
		if firstKeys[i] != secondKeys[i] {
			t.Errorf("row %d differs:\n  %s\n  %s", i, firstKeys[i], secondKeys[i])
		}
	}
}

func TestEngine_RSVPReactivity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ids := seedRoster(t, store, 3)

	event := seedEvent(t, store, &models.Event{
		Title:     "Golf",
		TotalCost: decimal.NewFromInt(300),
		SplitType: models.SplitEven,
	})

	for _, id := range ids[:3] {
		err := store.UpsertRSVP(ctx, &models.RSVP{
			ParticipantID: id, EventID: event.ID, Status: models.RSVPConfirmed, UpdatedAt: time.Now().Unix(),
		})
		if err != nil {
			t.Fatalf("failed to upsert rsvp: %v", err)
		}
	}

	engine := NewEngine(store)
	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	rows, _ := store.ListEventAllocations(ctx, event.ID)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for _, a := range rows {
		if a.Amount.String() != "100" {
			t.Errorf("expected 100 per payer, got %s", a.Amount)
		}
	}

	// One RSVP flips to declined: remaining shares go from T/3 to T/2.
	err := store.UpsertRSVP(ctx, &models.RSVP{
		ParticipantID: ids[0], EventID: event.ID, Status: models.RSVPDeclined, UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		t.Fatalf("failed to upsert rsvp: %v", err)
	}
	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	rows, _ = store.ListEventAllocations(ctx, event.ID)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, a := range rows {
		if a.Amount.String() != "150" {
			t.Errorf("expected 150 per payer, got %s", a.Amount)
		}
	}
}

func TestEngine_CustomExemption(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ids := seedRoster(t, store, 2)

	event := seedEvent(t, store, &models.Event{
		Title:       "Suits",
		TotalCost:   decimal.NewFromInt(900),
		SplitType:   models.SplitCustom,
		IsMandatory: true,
	})

	manual := []models.CostAllocation{
		{EventID: event.ID, ParticipantID: ids[0], Amount: decimal.NewFromInt(600), Note: "tailored"},
		{EventID: event.ID, ParticipantID: ids[1], Amount: decimal.NewFromInt(300), Note: "off the rack"},
	}
	sort.Slice(manual, func(i, j int) bool { return manual[i].ParticipantID < manual[j].ParticipantID })
	if err := store.ReplaceAllocations(ctx, event.ID, manual); err != nil {
		t.Fatalf("failed to seed manual rows: %v", err)
	}

	engine := NewEngine(store)
	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	rows, _ := store.ListEventAllocations(ctx, event.ID)
	if len(rows) != 2 {
		t.Fatalf("custom event rows must be untouched, got %d rows", len(rows))
	}
	for i, a := range rows {
		if rowKey(a) != rowKey(manual[i]) {
			t.Errorf("row %d changed: %s vs %s", i, rowKey(a), rowKey(manual[i]))
		}
	}
}

func TestEngine_ManualOverrideClobbered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ids := seedRoster(t, store, 2)

	event := seedEvent(t, store, &models.Event{
		Title:       "Dinner",
		TotalCost:   decimal.NewFromInt(200),
		SplitType:   models.SplitEven,
		IsMandatory: true,
	})

	// Admin hand-tunes an even event. The next recompute snaps it back
	// to formula because the event is still engine-owned.
	override := []models.CostAllocation{
		{EventID: event.ID, ParticipantID: ids[0], Amount: decimal.NewFromInt(200), Note: "covers everyone"},
	}
	if err := store.ReplaceAllocations(ctx, event.ID, override); err != nil {
		t.Fatalf("failed to apply override: %v", err)
	}

	engine := NewEngine(store)
	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	rows, _ := store.ListEventAllocations(ctx, event.ID)
	// Groom is not excluded here, so all three confirmed roster members
	// are plain payers.
	if len(rows) != 3 {
		t.Fatalf("expected formula rows for 3 payers, got %d", len(rows))
	}
}

func TestEngine_EmptyPayersClearsRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ids := seedRoster(t, store, 2)

	event := seedEvent(t, store, &models.Event{
		Title:       "Brunch",
		TotalCost:   decimal.NewFromInt(80),
		SplitType:   models.SplitEven,
		IsMandatory: true,
	})

	engine := NewEngine(store)
	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if rows, _ := store.ListEventAllocations(ctx, event.ID); len(rows) == 0 {
		t.Fatal("expected rows before everyone declined")
	}

	for _, id := range ids {
		if err := store.UpdateTripStatus(ctx, id, models.TripDeclined); err != nil {
			t.Fatalf("failed to update trip status: %v", err)
		}
	}
	if err := engine.Recompute(ctx, event.ID); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}

	if rows, _ := store.ListEventAllocations(ctx, event.ID); len(rows) != 0 {
		t.Errorf("expected no rows when nobody attends, got %d", len(rows))
	}
}

func TestEngine_MissingEventIsNoOp(t *testing.T) {
	store := newTestStore(t)
	engine := NewEngine(store)
	if err := engine.Recompute(context.Background(), "no-such-event"); err != nil {
		t.Errorf("missing event must be a silent no-op, got %v", err)
	}
}

func TestDispatcher_DeliversResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedRoster(t, store, 2)

	event := seedEvent(t, store, &models.Event{
		Title:       "Bar crawl",
		TotalCost:   decimal.NewFromInt(90),
		SplitType:   models.SplitEven,
		IsMandatory: true,
	})

	dispatcher := NewDispatcher(NewEngine(store), 10)
	dispatcher.Start()
	defer dispatcher.Shutdown()

	dispatcher.Enqueue(event.ID, "test trigger")

	select {
	case res := <-dispatcher.Results():
		if res.Err != nil {
			t.Fatalf("recompute failed: %v", res.Err)
		}
		if res.EventID != event.ID {
			t.Errorf("expected result for %s, got %s", event.ID, res.EventID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dispatch result")
	}

	rows, err := store.ListEventAllocations(ctx, event.ID)
	if err != nil {
		t.Fatalf("failed to list allocations: %v", err)
	}
	if len(rows) == 0 {
		t.Error("dispatched recompute should have written rows")
	}
}
