// Package quote fetches current market prices for the positions of a portfolio.
//
// Providers are best effort: a symbol they cannot price is simply missing from
// the returned map. Quotes are applied to a portfolio with
// portfolio.ApplyPrices, which only ever changes current prices.
package quote

import (
	"context"
	"strings"

	portfolio "github.com/etnz/folio"
)

// Asset identifies what to quote.
type Asset struct {
	Symbol string
	Type   portfolio.AssetType
}

// Provider returns the current price of assets, keyed by upper-case symbol.
// Assets it cannot price are missing from the map.
type Provider interface {
	Quotes(ctx context.Context, assets []Asset) (map[string]portfolio.Money, error)
}

// CurrentPrice returns the current price of a single asset. ok is false when
// the provider has no quote for it.
func CurrentPrice(ctx context.Context, p Provider, a Asset) (price portfolio.Money, ok bool, err error) {
	quotes, err := p.Quotes(ctx, []Asset{a})
	if err != nil {
		return portfolio.Money{}, false, err
	}
	price, ok = quotes[strings.ToUpper(a.Symbol)]
	return price, ok, nil
}

// Assets lists the assets held in p.
func Assets(p portfolio.Portfolio) []Asset {
	positions := p.Positions()
	out := make([]Asset, 0, len(positions))
	for _, pos := range positions {
		out = append(out, Asset{Symbol: pos.Symbol, Type: pos.Type})
	}
	return out
}

// Static is a Provider serving fixed prices, keyed by upper-case symbol.
type Static map[string]portfolio.Money

// Quotes returns the fixed prices of the requested assets.
func (s Static) Quotes(_ context.Context, assets []Asset) (map[string]portfolio.Money, error) {
	out := make(map[string]portfolio.Money)
	for _, a := range assets {
		symbol := strings.ToUpper(a.Symbol)
		if price, ok := s[symbol]; ok {
			out[symbol] = price
		}
	}
	return out, nil
}

// symbols returns the distinct upper-case symbols of assets, in order.
func symbols(assets []Asset) []string {
	seen := make(map[string]bool, len(assets))
	var out []string
	for _, a := range assets {
		s := strings.ToUpper(strings.TrimSpace(a.Symbol))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
