package portfolio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/folio/date"
)

// positionRecord is the persisted layout of a position.
type positionRecord struct {
	ID                string            `json:"id"`
	Type              AssetType         `json:"type"`
	Symbol            string            `json:"symbol"`
	Name              string            `json:"name"`
	Quantity          Quantity          `json:"quantity"`
	BuyPrice          Money             `json:"buyPrice"`
	CurrentPrice      Money             `json:"currentPrice"`
	Platform          string            `json:"platform"`
	BuyDate           date.Date         `json:"buyDate"`
	DividendAmount    Money             `json:"dividendAmount"`
	DividendFrequency DividendFrequency `json:"dividendFrequency"`
	Lots              Lots              `json:"lots"`
	Transactions      Transactions      `json:"transactions"`
}

// MarshalJSON writes the position with its derived quantity and buy price.
// A legacy position is written without lots.
func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", p.ID).
		Append("type", p.Type).
		Append("symbol", p.Symbol).
		Append("name", p.Name).
		Append("quantity", p.Quantity()).
		Append("buyPrice", p.BuyPrice()).
		Append("currentPrice", p.CurrentPrice).
		Append("platform", p.Platform).
		Append("buyDate", p.BuyDate).
		Append("dividendAmount", p.DividendAmount).
		Optional("dividendFrequency", p.DividendFrequency)
	if p.legacy == nil {
		lots := p.lots
		if lots == nil {
			lots = Lots{}
		}
		w.Append("lots", lots)
	}
	txs := p.transactions
	if txs == nil {
		txs = Transactions{}
	}
	w.Append("transactions", txs)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a persisted position.
//
// A record without lots but with a positive quantity is a legacy position.
// Lots and transactions are validated like new ones.
// Lots recorded without a platform are assigned the position platform, or
// UnknownPlatform. The stored quantity and buy price of a lot-based record
// are ignored: they are always derived from the lots.
func (p *Position) UnmarshalJSON(data []byte) error {
	var rec positionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	pos := Position{
		ID:                rec.ID,
		Symbol:            normalizeSymbol(rec.Symbol),
		Name:              rec.Name,
		Type:              rec.Type,
		Platform:          canonicalPlatform(rec.Platform),
		BuyDate:           rec.BuyDate,
		CurrentPrice:      rec.CurrentPrice,
		DividendAmount:    rec.DividendAmount,
		DividendFrequency: rec.DividendFrequency,
	}
	if t, err := ParseAssetType(string(rec.Type)); err == nil {
		pos.Type = t
	}
	for _, tx := range rec.Transactions {
		if err := tx.validate(); err != nil {
			return fmt.Errorf("position %s: %w", pos.Symbol, err)
		}
	}
	pos.transactions = rec.Transactions

	if len(rec.Lots) == 0 {
		if !rec.Quantity.IsPositive() {
			return fmt.Errorf("position %s holds no lots and no quantity", pos.Symbol)
		}
		pos.legacy = &legacyHolding{Quantity: rec.Quantity, BuyPrice: rec.BuyPrice}
		*p = pos
		return nil
	}

	lots := make(Lots, 0, len(rec.Lots))
	for _, lot := range rec.Lots {
		if lot.Platform == "" {
			lot.Platform = pos.Platform
		}
		lot.Platform = normalizePlatform(lot.Platform)
		if err := lot.validate(); err != nil {
			return fmt.Errorf("position %s: %w", pos.Symbol, err)
		}
		lots = append(lots, lot)
	}
	pos.lots = lots
	*p = pos
	return nil
}

// MarshalJSON writes the portfolio as an array of positions.
func (p Portfolio) MarshalJSON() ([]byte, error) {
	positions := p.positions
	if positions == nil {
		positions = []Position{}
	}
	return json.Marshal(positions)
}

// UnmarshalJSON reads an array of positions. null reads as an empty portfolio.
func (p *Portfolio) UnmarshalJSON(data []byte) error {
	var positions []Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return err
	}
	next, err := New(positions...)
	if err != nil {
		return err
	}
	*p = next
	return nil
}

// EncodePortfolio writes p as an indented JSON array.
func EncodePortfolio(w io.Writer, p Portfolio) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cannot encode portfolio: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("cannot encode portfolio: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

// DecodePortfolio reads a portfolio written by EncodePortfolio, or by earlier
// versions that stored positions without lots. Empty input is an empty portfolio.
func DecodePortfolio(r io.Reader) (Portfolio, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Portfolio{}, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Portfolio{}, nil
	}
	var p Portfolio
	if err := json.Unmarshal(raw, &p); err != nil {
		return Portfolio{}, fmt.Errorf("cannot decode portfolio: %w", err)
	}
	return p, nil
}
