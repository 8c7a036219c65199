// Package ledger derives the owed/paid/remaining view per participant.
//
// Balances are pure read-time aggregations over allocation rows and
// confirmed payments. They are never stored or cached, so a balance read
// always reflects the latest recomputation.
package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/models"
	"github.com/mpetrov/stagtrip/internal/storage"
)

// Ledger computes balances from the store.
type Ledger struct {
	store storage.Store
}

// New creates a Ledger backed by the given store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// Balance returns one participant's owed/paid/remaining totals.
// Remaining may be negative (overpayment) and is returned as-is.
func (l *Ledger) Balance(ctx context.Context, participantID string) (models.Balance, error) {
	p, err := l.store.GetParticipant(ctx, participantID)
	if err != nil {
		return models.Balance{}, fmt.Errorf("load participant: %w", err)
	}

	allocations, err := l.store.ListParticipantAllocations(ctx, participantID)
	if err != nil {
		return models.Balance{}, fmt.Errorf("load allocations: %w", err)
	}
	payments, err := l.store.ListParticipantPayments(ctx, participantID)
	if err != nil {
		return models.Balance{}, fmt.Errorf("load payments: %w", err)
	}

	owed := decimal.Zero
	for _, a := range allocations {
		owed = owed.Add(a.Amount)
	}
	paid := decimal.Zero
	for _, pay := range payments {
		if pay.Status == models.PaymentConfirmed {
			paid = paid.Add(pay.Amount)
		}
	}

	return models.Balance{
		ParticipantID: p.ID,
		Name:          p.Name,
		TotalOwed:     owed,
		TotalPaid:     paid,
		Remaining:     owed.Sub(paid),
	}, nil
}

// AllBalances returns a balance for every roster member, including those
// with no allocations or payments, ordered by name for stable output.
func (l *Ledger) AllBalances(ctx context.Context) ([]models.Balance, error) {
	roster, err := l.store.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	allocations, err := l.store.ListAllocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load allocations: %w", err)
	}
	payments, err := l.store.ListConfirmedPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	owed := make(map[string]decimal.Decimal)
	for _, a := range allocations {
		owed[a.ParticipantID] = owed[a.ParticipantID].Add(a.Amount)
	}
	paid := make(map[string]decimal.Decimal)
	for _, pay := range payments {
		paid[pay.ParticipantID] = paid[pay.ParticipantID].Add(pay.Amount)
	}

	balances := make([]models.Balance, 0, len(roster))
	for _, p := range roster {
		o := owed[p.ID]
		pd := paid[p.ID]
		balances = append(balances, models.Balance{
			ParticipantID: p.ID,
			Name:          p.Name,
			TotalOwed:     o,
			TotalPaid:     pd,
			Remaining:     o.Sub(pd),
		})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Name < balances[j].Name })
	return balances, nil
}
