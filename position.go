package portfolio

import (
	"github.com/etnz/folio/date"
)

// LegacyLotID is the id of the lot synthesized to read a legacy position.
const LegacyLotID = "legacy"

// Position is the holding of one symbol.
//
// A position is either lot-based, its quantity and average cost derived from
// its lots, or legacy: it was recorded before lots existed and only carries a
// quantity and a buy price. Legacy positions are migrated to the lot-based
// shape by the first buy or sell that touches them.
//
// The zero Position holds nothing. Positions are values: the engine never
// modifies a Position it returned.
type Position struct {
	ID     string
	Symbol string
	Name   string
	Type   AssetType

	Platform string    // platform of the first acquisition
	BuyDate  date.Date // date of the first acquisition, zero if unknown

	CurrentPrice      Money
	DividendAmount    Money // yearly dividend per share
	DividendFrequency DividendFrequency

	lots         Lots
	transactions Transactions
	legacy       *legacyHolding
}

// legacyHolding is the summary of a position recorded without lots.
type legacyHolding struct {
	Quantity Quantity
	BuyPrice Money
}

// NewLegacyPosition returns a position that carries only a quantity and a buy
// price, as recorded before lots existed.
func NewLegacyPosition(id, symbol, name string, typ AssetType, quantity Quantity, buyPrice Money, platform string, buyDate date.Date) Position {
	return Position{
		ID:       id,
		Symbol:   normalizeSymbol(symbol),
		Name:     name,
		Type:     typ,
		Platform: canonicalPlatform(platform),
		BuyDate:  buyDate,
		legacy:   &legacyHolding{Quantity: quantity, BuyPrice: buyPrice},
	}
}

// IsLegacy reports whether the position has no lots yet.
func (p Position) IsLegacy() bool { return p.legacy != nil }

// Lots returns a copy of the lot ledger.
//
// A legacy position reads as a single lot identified by LegacyLotID, acquired
// on BuyDate at the buy price.
func (p Position) Lots() Lots {
	if p.legacy != nil {
		return Lots{{
			ID:       LegacyLotID,
			Date:     p.BuyDate,
			Quantity: p.legacy.Quantity,
			Price:    p.legacy.BuyPrice,
			Platform: normalizePlatform(p.Platform),
		}}
	}
	return p.lots.clone()
}

// Transactions returns a copy of the transaction history.
func (p Position) Transactions() Transactions { return p.transactions.clone() }

// Quantity returns the quantity held.
func (p Position) Quantity() Quantity {
	if p.legacy != nil {
		return p.legacy.Quantity
	}
	return p.lots.Quantity()
}

// BuyPrice returns the weighted-average unit cost of the quantity held.
func (p Position) BuyPrice() Money {
	if p.legacy != nil {
		return p.legacy.BuyPrice
	}
	return Recompute(p.lots).BuyPrice
}

// Cost returns the acquisition cost of the quantity held.
func (p Position) Cost() Money {
	if p.legacy != nil {
		return p.legacy.BuyPrice.Mul(p.legacy.Quantity)
	}
	return p.lots.Cost()
}

// MarketValue returns the quantity held valued at the current price.
func (p Position) MarketValue() Money { return p.CurrentPrice.Mul(p.Quantity()) }

// GainLoss returns the unrealized gain of the position.
func (p Position) GainLoss() Money { return p.MarketValue().Sub(p.Cost()) }

// AnnualDividends returns the yearly dividend income of the quantity held.
func (p Position) AnnualDividends() Money { return p.DividendAmount.Mul(p.Quantity()) }
