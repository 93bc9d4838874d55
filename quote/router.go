package quote

import (
	"context"
	"errors"
	"sync"

	portfolio "github.com/etnz/folio"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Router sends crypto assets to one provider and every other asset to another.
//
// Both classes are fetched concurrently. A failing class is logged and left
// unquoted; Quotes only fails when every class it queried failed.
type Router struct {
	Stocks Provider
	Crypto Provider
	log    zerolog.Logger
}

// NewRouter returns a Router. A nil provider leaves its asset class unquoted.
func NewRouter(stocks, crypto Provider, log zerolog.Logger) *Router {
	return &Router{
		Stocks: stocks,
		Crypto: crypto,
		log:    log.With().Str("component", "quote_router").Logger(),
	}
}

// Quotes implements Provider.
func (r *Router) Quotes(ctx context.Context, assets []Asset) (map[string]portfolio.Money, error) {
	var stocks, crypto []Asset
	for _, a := range assets {
		if a.Type == portfolio.Crypto {
			crypto = append(crypto, a)
		} else {
			stocks = append(stocks, a)
		}
	}

	type class struct {
		name     string
		provider Provider
		assets   []Asset
	}
	var classes []class
	if len(stocks) > 0 && r.Stocks != nil {
		classes = append(classes, class{"stocks", r.Stocks, stocks})
	}
	if len(crypto) > 0 && r.Crypto != nil {
		classes = append(classes, class{"crypto", r.Crypto, crypto})
	}
	out := make(map[string]portfolio.Money)
	if len(classes) == 0 {
		return out, nil
	}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	for _, c := range classes {
		g.Go(func() error {
			quotes, err := c.provider.Quotes(ctx, c.assets)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.log.Warn().Err(err).Str("class", c.name).Int("assets", len(c.assets)).Msg("Quote fetch failed")
				errs = append(errs, err)
				return nil
			}
			for symbol, price := range quotes {
				out[symbol] = price
			}
			return nil
		})
	}
	g.Wait()

	if len(errs) == len(classes) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
