package portfolio

import (
	"fmt"

	"github.com/etnz/folio/date"
)

// Migrate returns p in the lot-based shape with a complete history.
//
// A legacy position becomes a single lot of its quantity at its buy price,
// dated BuyDate or fallback when BuyDate is unknown. A position without
// history receives one retroactive buy per lot. Other positions are returned
// unchanged. newID is called once per record created.
func Migrate(p Position, fallback date.Date, newID func() string) (Position, error) {
	if p.legacy != nil {
		on := p.BuyDate
		if on.IsZero() {
			on = fallback
		}
		lot, err := NewLot(newID(), on, p.legacy.Quantity, p.legacy.BuyPrice, p.Platform)
		if err != nil {
			return Position{}, fmt.Errorf("migrate %s: %w", p.Symbol, err)
		}
		p.lots = Lots{lot}
		p.legacy = nil
		p.BuyDate = on
		p.Platform = lot.Platform
	}

	if len(p.transactions) == 0 {
		txs := make(Transactions, 0, len(p.lots))
		for _, lot := range p.lots {
			tx, err := NewTransaction(newID(), lot.Date, BuyTx, lot.Quantity, lot.Price, lot.Platform)
			if err != nil {
				return Position{}, fmt.Errorf("migrate %s: %w", p.Symbol, err)
			}
			txs = append(txs, tx)
		}
		p.transactions = txs
	}
	return p, nil
}
