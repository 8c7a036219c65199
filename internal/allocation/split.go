package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/models"
)

// Share is one payer's computed portion of an event's cost.
type Share struct {
	Amount decimal.Decimal
	Note   string
}

// ComputeShares computes each payer's share of an event's cost.
//
// Semantics by split type:
//   - even: totalCost is the group total; each payer owes totalCost/n.
//   - fixed: totalCost is a per-person rate. If the groom is excluded and
//     attending (groomAbsorbed), the rate is grossed up to
//     rate*(n+1)/n so the group collectively covers his seat. Otherwise
//     every payer owes the flat rate.
//   - custom: never computed here; admin-authored rows are out of the
//     engine's hands entirely.
//
// A zero total or an empty payer set short-circuits to an empty result,
// which is distinct from a computed zero share. Amounts keep full decimal
// precision; only display layers round.
func ComputeShares(totalCost decimal.Decimal, splitType models.SplitType, payers []models.Participant, groomAbsorbed bool) (map[string]Share, error) {
	if splitType == models.SplitCustom {
		return nil, fmt.Errorf("custom split events are admin-authored and cannot be computed")
	}
	if !splitType.Valid() {
		return nil, fmt.Errorf("unknown split type %q", splitType)
	}
	if totalCost.IsNegative() {
		return nil, fmt.Errorf("total cost cannot be negative")
	}

	shares := make(map[string]Share)
	if totalCost.IsZero() || len(payers) == 0 {
		return shares, nil
	}

	n := decimal.NewFromInt(int64(len(payers)))
	switch splitType {
	case models.SplitEven:
		perPerson := totalCost.Div(n)
		note := fmt.Sprintf("even split of %s among %d", totalCost.StringFixed(2), len(payers))
		if groomAbsorbed {
			note += " (covers groom)"
		}
		for _, p := range payers {
			shares[p.ID] = Share{Amount: perPerson, Note: note}
		}
	case models.SplitFixed:
		rate := totalCost
		note := fmt.Sprintf("flat rate of %s", totalCost.StringFixed(2))
		if groomAbsorbed {
			// The "+1" is the groom's seat, paid for by the rest.
			rate = totalCost.Mul(n.Add(decimal.NewFromInt(1))).Div(n)
			note = fmt.Sprintf("rate of %s grossed up to cover groom's seat", totalCost.StringFixed(2))
		}
		for _, p := range payers {
			shares[p.ID] = Share{Amount: rate, Note: note}
		}
	}
	return shares, nil
}
