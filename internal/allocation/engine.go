package allocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

// Engine orchestrates cost recomputation for events: it resolves the
// paying set, computes shares, and atomically replaces the event's
// allocation rows.
//
// Recomputations for the same event are serialized through a per-event
// mutex, so two triggers arriving together cannot interleave their
// delete/insert cycles. The replacement itself is also a single store
// transaction.
type Engine struct {
	store storage.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(store storage.Store) *Engine {
	return &Engine{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// eventLock returns the mutex serializing recomputations for one event.
func (e *Engine) eventLock(eventID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[eventID] = lock
	}
	return lock
}

// Recompute rebuilds the allocation rows for one event from current
// attendance and cost configuration. It is idempotent: unchanged inputs
// produce an identical row set.
//
// Missing events, custom-split events, and zero-cost events are silent
// no-ops; callers trigger recomputation speculatively and must not treat
// those as failures.
func (e *Engine) Recompute(ctx context.Context, eventID string) error {
	lock := e.eventLock(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := e.store.GetEvent(ctx, eventID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("recompute skipped: event not found", "event_id", eventID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load event: %w", err)
	}
	if !event.AutoSplit() {
		return nil
	}

	roster, err := e.store.ListParticipants(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	var rsvps map[string]models.RSVPStatus
	if !event.IsMandatory {
		rsvps, err = e.store.ListEventRSVPs(ctx, eventID)
		if err != nil {
			return fmt.Errorf("load rsvps: %w", err)
		}
	}

	set := ResolvePayers(event, roster, rsvps)
	if len(set.Payers) == 0 {
		// Nobody is charged; clear whatever rows are left over.
		if err := e.store.ReplaceAllocations(ctx, eventID, nil); err != nil {
			return fmt.Errorf("clear allocations: %w", err)
		}
		return nil
	}

	shares, err := ComputeShares(event.TotalCost, event.SplitType, set.Payers, set.GroomAttending)
	if err != nil {
		return fmt.Errorf("compute shares: %w", err)
	}

	rows := make([]models.CostAllocation, 0, len(shares)+1)
	for id, share := range shares {
		rows = append(rows, models.CostAllocation{
			EventID:       eventID,
			ParticipantID: id,
			Amount:        share.Amount,
			Note:          share.Note,
		})
	}
	if set.GroomAttending {
		if groomID := findGroom(roster); groomID != "" {
			rows = append(rows, models.CostAllocation{
				EventID:       eventID,
				ParticipantID: groomID,
				Amount:        decimal.Zero,
				Note:          "attending as groom; share covered by the group",
			})
		}
	}
	// Deterministic order keeps consecutive recomputes byte-identical.
	sort.Slice(rows, func(i, j int) bool { return rows[i].ParticipantID < rows[j].ParticipantID })

	if err := e.store.ReplaceAllocations(ctx, eventID, rows); err != nil {
		return fmt.Errorf("replace allocations: %w", err)
	}

	slog.Info("allocations recomputed",
		"event_id", eventID,
		"split_type", event.SplitType,
		"payers", len(set.Payers),
		"groom_absorbed", set.GroomAttending,
	)
	return nil
}

// RecomputeAll sweeps every event the engine owns (mandatory or even/fixed
// with nonzero cost). Run at startup to self-heal drift from manual edits
// or recomputations that failed in the background. Individual failures are
// logged and do not stop the sweep.
func (e *Engine) RecomputeAll(ctx context.Context) {
	events, err := e.store.ListAutoSplitEvents(ctx)
	if err != nil {
		slog.Error("startup sweep: failed to list events", "error", err)
		return
	}
	for _, ev := range events {
		if err := e.Recompute(ctx, ev.ID); err != nil {
			slog.Error("startup sweep: recompute failed", "event_id", ev.ID, "error", err)
		}
	}
	slog.Info("startup sweep complete", "events", len(events))
}

func findGroom(roster []models.Participant) string {
	for _, p := range roster {
		if p.IsGroom {
			return p.ID
		}
	}
	return ""
}
