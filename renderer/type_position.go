package renderer

import (
	"strings"

	portfolio "github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// Position is the data of the per position reports: platform breakdown, lots
// and transactions.
type Position struct {
	Currency     string             `json:"currency"`
	Symbol       string             `json:"symbol"`
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	Quantity     portfolio.Quantity `json:"quantity"`
	BuyPrice     portfolio.Money    `json:"buyPrice"`
	CurrentPrice portfolio.Money    `json:"currentPrice"`
	Value        portfolio.Money    `json:"value"`
	Legacy       bool               `json:"legacy,omitempty"`

	Platforms    []PlatformRow    `json:"platforms"`
	Lots         []LotRow         `json:"lots"`
	Transactions []TransactionRow `json:"transactions"`

	// Range, when set, is the span the transactions were selected from.
	Range *date.Range `json:"range,omitempty"`
}

// PlatformRow is the part of a position held on one platform.
type PlatformRow struct {
	Platform string             `json:"platform"`
	Quantity portfolio.Quantity `json:"quantity"`
	Value    portfolio.Money    `json:"value"`
	Share    float64            `json:"share"` // percent of the position quantity
}

// LotRow is one open lot.
type LotRow struct {
	ID       string             `json:"id"`
	Date     date.Date          `json:"date"`
	Platform string             `json:"platform"`
	Quantity portfolio.Quantity `json:"quantity"`
	Price    portfolio.Money    `json:"price"`
	Cost     portfolio.Money    `json:"cost"`
}

// TransactionRow is one recorded trade.
type TransactionRow struct {
	Date     date.Date          `json:"date"`
	Type     string             `json:"type"`
	Platform string             `json:"platform"`
	Quantity portfolio.Quantity `json:"quantity"`
	Price    portfolio.Money    `json:"price"`
	Amount   portfolio.Money    `json:"amount"`
}

// NewPosition builds the report data of pos.
func NewPosition(pos portfolio.Position, currency string) *Position {
	p := &Position{
		Currency:     currency,
		Symbol:       pos.Symbol,
		Name:         pos.Name,
		Type:         string(pos.Type),
		Quantity:     pos.Quantity(),
		BuyPrice:     pos.BuyPrice(),
		CurrentPrice: pos.CurrentPrice,
		Value:        pos.MarketValue(),
		Legacy:       pos.IsLegacy(),
	}

	total := pos.Quantity().Float64()
	breakdown := portfolio.Breakdown(pos)
	for _, platform := range portfolio.Platforms(breakdown) {
		h := breakdown[platform]
		row := PlatformRow{Platform: platform, Quantity: h.Quantity, Value: h.Value}
		if total > 0 {
			row.Share = 100 * h.Quantity.Float64() / total
		}
		p.Platforms = append(p.Platforms, row)
	}

	for _, lot := range pos.Lots().Oldest() {
		p.Lots = append(p.Lots, LotRow{
			ID:       lot.ID,
			Date:     lot.Date,
			Platform: lot.Platform,
			Quantity: lot.Quantity,
			Price:    lot.Price,
			Cost:     lot.Cost(),
		})
	}

	p.Transactions = transactionRows(pos.Transactions())
	return p
}

// NewPositionWithin is like NewPosition but only keeps the transactions dated
// within r.
func NewPositionWithin(pos portfolio.Position, r date.Range, currency string) *Position {
	p := NewPosition(pos, currency)
	p.Transactions = transactionRows(pos.Transactions().Within(r))
	p.Range = &r
	return p
}

func transactionRows(txs portfolio.Transactions) []TransactionRow {
	var rows []TransactionRow
	for _, tx := range txs {
		platform := tx.Platform
		if platform == "" {
			platform = "all"
		}
		rows = append(rows, TransactionRow{
			Date:     tx.Date,
			Type:     string(tx.Type),
			Platform: platform,
			Quantity: tx.Quantity,
			Price:    tx.Price,
			Amount:   tx.Amount(),
		})
	}
	return rows
}

// Sell is the data of the sell report.
type Sell struct {
	Currency     string             `json:"currency"`
	Symbol       string             `json:"symbol"`
	Quantity     portfolio.Quantity `json:"quantity"`
	Price        portfolio.Money    `json:"price"`
	Proceeds     portfolio.Money    `json:"proceeds"`
	Cost         portfolio.Money    `json:"cost"`
	RealizedGain portfolio.Money    `json:"realizedGain"`
	Fills        []LotRow           `json:"fills"`
	Remaining    portfolio.Quantity `json:"remaining"`
}

// NewSell builds the report of selling quantity of symbol at price, given
// the consumed lots and the quantity left afterwards.
func NewSell(symbol string, quantity portfolio.Quantity, price portfolio.Money, fills portfolio.Fills, remaining portfolio.Quantity, currency string) *Sell {
	s := &Sell{
		Currency:     currency,
		Symbol:       strings.ToUpper(strings.TrimSpace(symbol)),
		Quantity:     quantity,
		Price:        price,
		Proceeds:     price.Mul(quantity),
		Cost:         fills.Cost(),
		RealizedGain: fills.RealizedGain(price),
		Remaining:    remaining,
	}
	for _, f := range fills {
		s.Fills = append(s.Fills, LotRow{
			ID:       f.LotID,
			Date:     f.Date,
			Platform: f.Platform,
			Quantity: f.Quantity,
			Price:    f.Price,
			Cost:     f.Price.Mul(f.Quantity),
		})
	}
	return s
}
