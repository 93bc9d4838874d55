package portfolio

import (
	"maps"
	"slices"
)

// Aggregate holds the summary fields derived from a lot ledger.
type Aggregate struct {
	Quantity Quantity
	BuyPrice Money // weighted-average unit cost, zero when Quantity is zero
}

// Recompute derives the total quantity and the weighted-average cost of lots.
//
// The result only depends on the content of lots.
func Recompute(lots Lots) Aggregate {
	qty := lots.Quantity()
	if !qty.IsPositive() {
		return Aggregate{}
	}
	return Aggregate{Quantity: qty, BuyPrice: lots.Cost().Div(qty)}
}

// PlatformBreakdown sums lot quantities per platform.
func PlatformBreakdown(lots Lots) map[string]Quantity {
	out := make(map[string]Quantity)
	for _, lot := range lots {
		out[lot.Platform] = out[lot.Platform].Add(lot.Quantity)
	}
	return out
}

// PlatformHolding is the part of a position held on one platform.
type PlatformHolding struct {
	Quantity Quantity `json:"quantity"`
	Value    Money    `json:"value"` // at the position's current price
}

// Breakdown returns, per platform, the quantity held and its market value at
// the position's current price.
func Breakdown(p Position) map[string]PlatformHolding {
	out := make(map[string]PlatformHolding)
	for platform, qty := range PlatformBreakdown(p.Lots()) {
		out[platform] = PlatformHolding{Quantity: qty, Value: p.CurrentPrice.Mul(qty)}
	}
	return out
}

// Platforms returns the sorted platform names of a breakdown.
func Platforms[V any](breakdown map[string]V) []string {
	return slices.Sorted(maps.Keys(breakdown))
}
