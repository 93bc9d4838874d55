package portfolio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecompute(t *testing.T) {
	testCases := []struct {
		name string
		lots Lots
		want Aggregate
	}{
		{
			name: "empty",
			want: Aggregate{},
		},
		{
			name: "single lot",
			lots: Lots{{Quantity: Q(3), Price: M(42)}},
			want: Aggregate{Quantity: Q(3), BuyPrice: M(42)},
		},
		{
			name: "weighted average",
			lots: Lots{{Quantity: Q(10), Price: M(100)}, {Quantity: Q(10), Price: M(200)}},
			want: Aggregate{Quantity: Q(20), BuyPrice: M(150)},
		},
		{
			name: "fractional quantities",
			lots: Lots{{Quantity: Q(0.5), Price: M(60000)}, {Quantity: Q(0.25), Price: M(30000)}},
			want: Aggregate{Quantity: Q(0.75), BuyPrice: M(50000)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Recompute(tc.lots)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Recompute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBreakdown(t *testing.T) {
	p := mustBuy(testEngine(), Portfolio{},
		BuyRequest{Symbol: "AAPL", Quantity: Q(10), Price: M(100), Platform: "Robinhood", Date: day("2024-01-01")},
		BuyRequest{Symbol: "AAPL", Quantity: Q(5), Price: M(120), Platform: "Fidelity", Date: day("2024-02-01")},
		BuyRequest{Symbol: "AAPL", Quantity: Q(1), Price: M(130), Platform: "Robinhood", Date: day("2024-03-01")},
	)
	p = ApplyPrices(p, map[string]Money{"AAPL": M(150)})
	pos, _ := p.Position("AAPL")

	want := map[string]PlatformHolding{
		"Robinhood": {Quantity: Q(11), Value: M(1650)},
		"Fidelity":  {Quantity: Q(5), Value: M(750)},
	}
	got := Breakdown(pos)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Breakdown() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Fidelity", "Robinhood"}, Platforms(got)); diff != "" {
		t.Errorf("Platforms() mismatch (-want +got):\n%s", diff)
	}

	var sum Quantity
	for _, h := range got {
		sum = sum.Add(h.Quantity)
	}
	if !sum.Equal(pos.Quantity()) {
		t.Errorf("sum of breakdown = %v, want %v", sum, pos.Quantity())
	}
}
