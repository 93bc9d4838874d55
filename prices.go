package portfolio

// ApplyPrices returns p with the current price of each quoted symbol replaced.
//
// Only CurrentPrice changes. Quotes for symbols not held and non-positive
// quotes are ignored, so applying a stale quote batch after a position was sold
// out is harmless.
func ApplyPrices(p Portfolio, quotes map[string]Money) Portfolio {
	if len(quotes) == 0 {
		return p
	}
	normalized := make(map[string]Money, len(quotes))
	for symbol, price := range quotes {
		normalized[normalizeSymbol(symbol)] = price
	}

	out := p.Positions()
	for i, pos := range out {
		price, ok := normalized[pos.Symbol]
		if !ok || !price.IsPositive() {
			continue
		}
		out[i].CurrentPrice = price
	}
	return Portfolio{positions: out}
}
