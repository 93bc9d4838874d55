package portfolio

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveSell(t *testing.T) {
	lots := Lots{
		{ID: "feb", Date: day("2024-02-01"), Quantity: Q(5), Price: M(120), Platform: "Fidelity"},
		{ID: "jan", Date: day("2024-01-01"), Quantity: Q(10), Price: M(100), Platform: "Robinhood"},
		{ID: "mar", Date: day("2024-03-01"), Quantity: Q(3), Price: M(90), Platform: "Fidelity"},
	}

	testCases := []struct {
		name      string
		quantity  Quantity
		platform  string
		wantLots  Lots
		wantFills []string // lot:quantity
		wantErr   error
	}{
		{
			name:     "oldest lot first, input order kept",
			quantity: Q(4),
			wantLots: Lots{
				lots[0],
				{ID: "jan", Date: day("2024-01-01"), Quantity: Q(6), Price: M(100), Platform: "Robinhood"},
				lots[2],
			},
			wantFills: []string{"jan:4"},
		},
		{
			name:      "spans lots and drops emptied ones",
			quantity:  Q(12),
			wantLots:  Lots{{ID: "feb", Date: day("2024-02-01"), Quantity: Q(3), Price: M(120), Platform: "Fidelity"}, lots[2]},
			wantFills: []string{"jan:10", "feb:2"},
		},
		{
			name:      "platform filter leaves other lots untouched",
			quantity:  Q(6),
			platform:  "Fidelity",
			wantLots:  Lots{lots[1], {ID: "mar", Date: day("2024-03-01"), Quantity: Q(2), Price: M(90), Platform: "Fidelity"}},
			wantFills: []string{"feb:5", "mar:1"},
		},
		{
			name:      "sell everything",
			quantity:  Q(18),
			wantLots:  Lots{},
			wantFills: []string{"jan:10", "feb:5", "mar:3"},
		},
		{
			name:     "platform short",
			quantity: Q(9),
			platform: "Fidelity",
			wantErr:  ErrInsufficientInventory,
		},
		{
			name:     "unknown platform holds nothing",
			quantity: Q(1),
			platform: "Kraken",
			wantErr:  ErrInsufficientInventory,
		},
		{
			name:     "global short",
			quantity: Q(19),
			wantErr:  ErrInsufficientInventory,
		},
		{
			name:     "zero quantity",
			quantity: Q(0),
			wantErr:  ErrInvalidLot,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := lots.clone()
			gotLots, fills, err := ResolveSell(lots, tc.quantity, tc.platform)
			if diff := cmp.Diff(before, lots); diff != "" {
				t.Fatalf("ResolveSell() modified its input (-before +after):\n%s", diff)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ResolveSell() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				return
			}
			if diff := cmp.Diff(tc.wantLots, gotLots); diff != "" {
				t.Errorf("ResolveSell() lots mismatch (-want +got):\n%s", diff)
			}
			var gotFills []string
			for _, f := range fills {
				gotFills = append(gotFills, f.LotID+":"+f.Quantity.String())
			}
			if diff := cmp.Diff(tc.wantFills, gotFills); diff != "" {
				t.Errorf("ResolveSell() fills mismatch (-want +got):\n%s", diff)
			}
			if !fills.Quantity().Equal(tc.quantity) {
				t.Errorf("Fills.Quantity() = %v, want %v", fills.Quantity(), tc.quantity)
			}
			if got, want := gotLots.Quantity().Add(fills.Quantity()), lots.Quantity(); !got.Equal(want) {
				t.Errorf("remaining + sold = %v, want %v", got, want)
			}
		})
	}
}

func TestResolveSellShortfall(t *testing.T) {
	lots := Lots{
		{ID: "a", Date: day("2024-01-01"), Quantity: Q(2), Price: M(10), Platform: "Kraken"},
		{ID: "b", Date: day("2024-01-02"), Quantity: Q(8), Price: M(10), Platform: "Coinbase"},
	}
	_, _, err := ResolveSell(lots, Q(5), "Kraken")

	var short *InsufficientInventoryError
	if !errors.As(err, &short) {
		t.Fatalf("ResolveSell() error = %v, want *InsufficientInventoryError", err)
	}
	if !short.Available.Equal(Q(2)) || !short.Shortfall.Equal(Q(3)) || short.Platform != "Kraken" {
		t.Errorf("ResolveSell() error = %+v, want 2 available and 3 short on Kraken", short)
	}
}

func TestFillsRealizedGain(t *testing.T) {
	fills := Fills{
		{LotID: "a", Quantity: Q(10), Price: M(100)},
		{LotID: "b", Quantity: Q(2), Price: M(120)},
	}
	if got, want := fills.Cost(), M(1240); !got.Equal(want) {
		t.Errorf("Cost() = %v, want %v", got, want)
	}
	if got, want := fills.RealizedGain(M(110)), M(80); !got.Equal(want) {
		t.Errorf("RealizedGain(110) = %v, want %v", got, want)
	}
}
