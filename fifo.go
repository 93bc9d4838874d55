package portfolio

import (
	"slices"

	"github.com/etnz/folio/date"
)

// Fill is the part of one lot consumed by a sell.
type Fill struct {
	LotID    string
	Date     date.Date
	Platform string
	Quantity Quantity
	Price    Money // unit cost of the lot
}

// Fills lists the lot consumptions of one sell, oldest lot first.
type Fills []Fill

// Quantity returns the total quantity consumed.
func (f Fills) Quantity() Quantity {
	var total Quantity
	for _, fill := range f {
		total = total.Add(fill.Quantity)
	}
	return total
}

// Cost returns the acquisition cost of the consumed quantity.
func (f Fills) Cost() Money {
	var total Money
	for _, fill := range f {
		total = total.Add(fill.Price.Mul(fill.Quantity))
	}
	return total
}

// RealizedGain returns the gain of selling the consumed quantity at price.
func (f Fills) RealizedGain(price Money) Money {
	return price.Mul(f.Quantity()).Sub(f.Cost())
}

// ResolveSell consumes quantity from lots, oldest first.
//
// When platform is not empty only lots held on that platform are eligible, the
// others are returned untouched. Lots acquired the same day are consumed in
// ledger order. A fully consumed lot is dropped, a partially consumed one is
// replaced by its remainder (same id, date, price and platform). The returned
// ledger keeps the input order.
//
// If the eligible lots hold less than quantity, ResolveSell returns an
// *InsufficientInventoryError and no lots.
func ResolveSell(lots Lots, quantity Quantity, platform string) (Lots, Fills, error) {
	if !quantity.IsPositive() {
		return nil, nil, invalid("sell quantity must be positive, got %s", quantity)
	}

	var eligible []int
	var available Quantity
	for i, lot := range lots {
		if platform == "" || lot.Platform == platform {
			eligible = append(eligible, i)
			available = available.Add(lot.Quantity)
		}
	}
	if available.LessThan(quantity) {
		return nil, nil, &InsufficientInventoryError{
			Platform:  platform,
			Requested: quantity,
			Available: available,
			Shortfall: quantity.Sub(available),
		}
	}

	slices.SortStableFunc(eligible, func(a, b int) int { return lots[a].Date.Compare(lots[b].Date) })

	remainders := make(map[int]Quantity)
	var fills Fills
	left := quantity
	for _, i := range eligible {
		if left.IsZero() {
			break
		}
		lot := lots[i]
		taken := lot.Quantity.Min(left)
		remainders[i] = lot.Quantity.Sub(taken)
		left = left.Sub(taken)
		fills = append(fills, Fill{
			LotID:    lot.ID,
			Date:     lot.Date,
			Platform: lot.Platform,
			Quantity: taken,
			Price:    lot.Price,
		})
	}

	out := make(Lots, 0, len(lots))
	for i, lot := range lots {
		if rest, consumed := remainders[i]; consumed {
			if rest.IsZero() {
				continue
			}
			lot.Quantity = rest
		}
		out = append(out, lot)
	}
	return out, fills, nil
}
