package portfolio

import (
	"slices"

	"github.com/etnz/folio/date"
)

// Lot is a single acquisition of a quantity of an asset, at a unit price, on a
// date and through a platform.
//
// A lot is never retained with a zero quantity: selling it entirely removes it.
type Lot struct {
	ID       string    `json:"id"`
	Date     date.Date `json:"date"`
	Quantity Quantity  `json:"quantity"`
	Price    Money     `json:"price"` // unit cost
	Platform string    `json:"platform"`
}

// NewLot returns a validated lot. An empty platform is recorded as UnknownPlatform.
func NewLot(id string, on date.Date, quantity Quantity, price Money, platform string) (Lot, error) {
	l := Lot{ID: id, Date: on, Quantity: quantity, Price: price, Platform: normalizePlatform(platform)}
	if err := l.validate(); err != nil {
		return Lot{}, err
	}
	return l, nil
}

func (l Lot) validate() error {
	if !l.Quantity.IsPositive() {
		return invalid("lot %s quantity must be positive, got %s", l.ID, l.Quantity)
	}
	if !l.Price.IsPositive() {
		return invalid("lot %s price must be positive, got %s", l.ID, l.Price)
	}
	return nil
}

// Cost returns the total acquisition cost of the lot.
func (l Lot) Cost() Money { return l.Price.Mul(l.Quantity) }

// Lots is the ledger of acquisitions backing one position.
type Lots []Lot

// AppendLot returns a new ledger with lot added at the end. The input is not modified.
func AppendLot(lots Lots, lot Lot) (Lots, error) {
	if err := lot.validate(); err != nil {
		return nil, err
	}
	out := make(Lots, 0, len(lots)+1)
	out = append(out, lots...)
	return append(out, lot), nil
}

// Quantity returns the total quantity held in the ledger.
func (l Lots) Quantity() Quantity {
	var total Quantity
	for _, lot := range l {
		total = total.Add(lot.Quantity)
	}
	return total
}

// Cost returns the total acquisition cost of the ledger.
func (l Lots) Cost() Money {
	var total Money
	for _, lot := range l {
		total = total.Add(lot.Cost())
	}
	return total
}

// Oldest returns the lots sorted by acquisition date, oldest first. Lots of the
// same day keep their ledger order.
func (l Lots) Oldest() Lots {
	out := slices.Clone(l)
	slices.SortStableFunc(out, func(a, b Lot) int { return a.Date.Compare(b.Date) })
	return out
}

// clone returns a copy that does not share storage with l.
func (l Lots) clone() Lots {
	if l == nil {
		return nil
	}
	return slices.Clone(l)
}
