package allocation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mpetrov/stagtrip/internal/models"
)

func payers(n int) []models.Participant {
	out := make([]models.Participant, n)
	names := []string{"Alice", "Bob", "Charlie", "Dave", "Eve", "Frank", "Grace"}
	for i := range out {
		out[i] = models.Participant{ID: names[i], Name: names[i]}
	}
	return out
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeShares_EvenSplit(t *testing.T) {
	shares, err := ComputeShares(dec("1500"), models.SplitEven, payers(5), false)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	if len(shares) != 5 {
		t.Fatalf("expected 5 shares, got %d", len(shares))
	}
	for id, share := range shares {
		if !share.Amount.Equal(dec("300")) {
			t.Errorf("%s: expected 300, got %s", id, share.Amount)
		}
	}
}

func TestComputeShares_EvenSplitConservation(t *testing.T) {
	// 100/3 is non-terminating; the shares must still sum back to the
	// total within a fixed-point epsilon.
	total := dec("100")
	shares, err := ComputeShares(total, models.SplitEven, payers(3), false)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	sum := decimal.Zero
	for _, share := range shares {
		sum = sum.Add(share.Amount)
	}
	if sum.Sub(total).Abs().GreaterThan(dec("0.0001")) {
		t.Errorf("shares sum to %s, want %s within epsilon", sum, total)
	}
}

func TestComputeShares_FixedFlatRate(t *testing.T) {
	shares, err := ComputeShares(dec("120"), models.SplitFixed, payers(4), false)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	for id, share := range shares {
		if !share.Amount.Equal(dec("120")) {
			t.Errorf("%s: expected flat 120, got %s", id, share.Amount)
		}
	}
}

func TestComputeShares_FixedAbsorption(t *testing.T) {
	// Rate 100, 4 payers, groom excluded and attending:
	// each payer pays 100 * 5 / 4 = 125.
	shares, err := ComputeShares(dec("100"), models.SplitFixed, payers(4), true)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	for id, share := range shares {
		if !share.Amount.Equal(dec("125")) {
			t.Errorf("%s: expected absorbed rate 125, got %s", id, share.Amount)
		}
		if !strings.Contains(share.Note, "groom") {
			t.Errorf("%s: note should mention the groom, got %q", id, share.Note)
		}
	}
}

func TestComputeShares_EvenGroomNote(t *testing.T) {
	shares, err := ComputeShares(dec("1500"), models.SplitEven, payers(5), true)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	for id, share := range shares {
		// Even splits divide the same total either way; only the note
		// reflects that the groom rides along.
		if !share.Amount.Equal(dec("300")) {
			t.Errorf("%s: expected 300, got %s", id, share.Amount)
		}
		if !strings.Contains(share.Note, "groom") {
			t.Errorf("%s: note should mention the groom, got %q", id, share.Note)
		}
	}
}

func TestComputeShares_ShortCircuits(t *testing.T) {
	tests := []struct {
		name   string
		total  decimal.Decimal
		payers []models.Participant
	}{
		{"zero total", decimal.Zero, payers(3)},
		{"no payers", dec("100"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ComputeShares(tt.total, models.SplitEven, tt.payers, false)
			if err != nil {
				t.Fatalf("ComputeShares failed: %v", err)
			}
			if len(shares) != 0 {
				t.Errorf("expected no allocation, got %d shares", len(shares))
			}
		})
	}
}

func TestComputeShares_CustomRejected(t *testing.T) {
	if _, err := ComputeShares(dec("100"), models.SplitCustom, payers(2), false); err == nil {
		t.Error("expected error for custom split type")
	}
}

func TestComputeShares_NegativeTotalRejected(t *testing.T) {
	if _, err := ComputeShares(dec("-1"), models.SplitEven, payers(2), false); err == nil {
		t.Error("expected error for negative total")
	}
}
