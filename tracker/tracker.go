// Package tracker applies buys, sells and price refreshes to stored portfolios.
//
// Mutations of one user's portfolio are serialized: each one loads the latest
// snapshot, applies the engine and saves the result before the next starts.
// Different users proceed in parallel. Quotes are fetched without holding the
// user's lock and applied to the snapshot current at that time.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	portfolio "github.com/etnz/folio"
	"github.com/etnz/folio/quote"
	"github.com/etnz/folio/store"
	"github.com/rs/zerolog"
)

// Tracker orchestrates the engine, the store and the quote provider.
type Tracker struct {
	store  store.Store
	quotes quote.Provider
	engine portfolio.Engine
	log    zerolog.Logger

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// New returns a Tracker. A nil provider disables price refreshes.
func New(s store.Store, quotes quote.Provider, engine portfolio.Engine, log zerolog.Logger) *Tracker {
	return &Tracker{
		store:  s,
		quotes: quotes,
		engine: engine,
		log:    log.With().Str("component", "tracker").Logger(),
		users:  make(map[string]*sync.Mutex),
	}
}

// lock acquires the mutation lock of user and returns its release.
func (t *Tracker) lock(user string) func() {
	t.mu.Lock()
	m, ok := t.users[user]
	if !ok {
		m = new(sync.Mutex)
		t.users[user] = m
	}
	t.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// mutate applies f to the stored portfolio of user and saves the result.
// Nothing is saved when f fails.
func (t *Tracker) mutate(ctx context.Context, user string, f func(portfolio.Portfolio) (portfolio.Portfolio, error)) (portfolio.Portfolio, error) {
	unlock := t.lock(user)
	defer unlock()

	p, err := t.store.Load(ctx, user)
	if err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("cannot load portfolio of %s: %w", user, err)
	}
	next, err := f(p)
	if err != nil {
		return portfolio.Portfolio{}, err
	}
	if err := t.store.Save(ctx, user, next); err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("cannot save portfolio of %s: %w", user, err)
	}
	return next, nil
}

// Buy records req in the portfolio of user, then refreshes the price of the
// symbol bought. A failed refresh is logged and does not fail the buy.
func (t *Tracker) Buy(ctx context.Context, user string, req portfolio.BuyRequest) (portfolio.Portfolio, error) {
	p, err := t.mutate(ctx, user, func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		return t.engine.Buy(p, req)
	})
	if err != nil {
		t.log.Debug().Err(err).Str("user", user).Str("symbol", req.Symbol).Msg("Buy rejected")
		return portfolio.Portfolio{}, err
	}
	t.log.Info().Str("user", user).Str("symbol", req.Symbol).Stringer("quantity", req.Quantity).Stringer("price", req.Price).Msg("Buy recorded")

	if pos, ok := p.Position(req.Symbol); ok {
		p = t.refreshAfter(ctx, user, p, pos)
	}
	return p, nil
}

// SellResult is the outcome of a sell.
type SellResult struct {
	Portfolio    portfolio.Portfolio
	Fills        portfolio.Fills
	RealizedGain portfolio.Money
}

// Sell records req in the portfolio of user. The price of the symbol is
// refreshed afterwards if some quantity is left.
func (t *Tracker) Sell(ctx context.Context, user string, req portfolio.SellRequest) (SellResult, error) {
	var fills portfolio.Fills
	p, err := t.mutate(ctx, user, func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		next, f, err := t.engine.SellWithFills(p, req)
		fills = f
		return next, err
	})
	if err != nil {
		t.log.Debug().Err(err).Str("user", user).Str("symbol", req.Symbol).Msg("Sell rejected")
		return SellResult{}, err
	}
	t.log.Info().Str("user", user).Str("symbol", req.Symbol).Stringer("quantity", req.Quantity).Stringer("price", req.Price).Msg("Sell recorded")

	if pos, ok := p.Position(req.Symbol); ok {
		p = t.refreshAfter(ctx, user, p, pos)
	}
	return SellResult{Portfolio: p, Fills: fills, RealizedGain: fills.RealizedGain(req.Price)}, nil
}

// refreshAfter refreshes the price of pos and returns the resulting
// portfolio, or p when the refresh did not happen.
func (t *Tracker) refreshAfter(ctx context.Context, user string, p portfolio.Portfolio, pos portfolio.Position) portfolio.Portfolio {
	if t.quotes == nil {
		return p
	}
	next, err := t.refresh(ctx, user, []quote.Asset{{Symbol: pos.Symbol, Type: pos.Type}})
	if err != nil {
		t.log.Warn().Err(err).Str("user", user).Str("symbol", pos.Symbol).Msg("Price refresh after mutation failed")
		return p
	}
	return next
}

// ErrNoQuotes is returned by Refresh when the tracker has no quote provider.
var ErrNoQuotes = errors.New("no quote provider configured")

// Refresh updates the current price of every position of user.
func (t *Tracker) Refresh(ctx context.Context, user string) (portfolio.Portfolio, error) {
	if t.quotes == nil {
		return portfolio.Portfolio{}, ErrNoQuotes
	}
	p, err := t.store.Load(ctx, user)
	if err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("cannot load portfolio of %s: %w", user, err)
	}
	if p.Len() == 0 {
		return p, nil
	}
	return t.refresh(ctx, user, quote.Assets(p))
}

// refresh fetches quotes for assets, then applies them to the latest snapshot
// of user. Positions sold out in between are left alone.
func (t *Tracker) refresh(ctx context.Context, user string, assets []quote.Asset) (portfolio.Portfolio, error) {
	quotes, err := t.quotes.Quotes(ctx, assets)
	if err != nil {
		return portfolio.Portfolio{}, err
	}
	next, err := t.mutate(ctx, user, func(p portfolio.Portfolio) (portfolio.Portfolio, error) {
		return portfolio.ApplyPrices(p, quotes), nil
	})
	if err != nil {
		return portfolio.Portfolio{}, err
	}
	t.log.Debug().Str("user", user).Int("assets", len(assets)).Int("quotes", len(quotes)).Msg("Prices refreshed")
	return next, nil
}

// RefreshAll refreshes the portfolio of every stored user. It keeps going
// after a failure and returns all the errors met.
func (t *Tracker) RefreshAll(ctx context.Context) error {
	users, err := t.store.Users(ctx)
	if err != nil {
		return fmt.Errorf("cannot list users: %w", err)
	}
	var errs []error
	for _, user := range users {
		if _, err := t.Refresh(ctx, user); err != nil {
			t.log.Warn().Err(err).Str("user", user).Msg("Refresh failed")
			errs = append(errs, fmt.Errorf("%s: %w", user, err))
		}
	}
	return errors.Join(errs...)
}

// Portfolio returns the stored portfolio of user.
func (t *Tracker) Portfolio(ctx context.Context, user string) (portfolio.Portfolio, error) {
	return t.store.Load(ctx, user)
}

// Position returns the position of user in symbol.
func (t *Tracker) Position(ctx context.Context, user, symbol string) (portfolio.Position, error) {
	p, err := t.store.Load(ctx, user)
	if err != nil {
		return portfolio.Position{}, err
	}
	pos, ok := p.Position(symbol)
	if !ok {
		return portfolio.Position{}, &portfolio.PositionNotFoundError{Symbol: symbol}
	}
	return pos, nil
}

// Summary returns the valuation of the portfolio of user.
func (t *Tracker) Summary(ctx context.Context, user string) (portfolio.Summary, error) {
	p, err := t.store.Load(ctx, user)
	if err != nil {
		return portfolio.Summary{}, err
	}
	return portfolio.Summarize(p), nil
}

// Breakdown returns the per platform holdings of user in symbol.
func (t *Tracker) Breakdown(ctx context.Context, user, symbol string) (map[string]portfolio.PlatformHolding, error) {
	pos, err := t.Position(ctx, user, symbol)
	if err != nil {
		return nil, err
	}
	return portfolio.Breakdown(pos), nil
}

// Transactions returns the trade history of user in symbol.
func (t *Tracker) Transactions(ctx context.Context, user, symbol string) (portfolio.Transactions, error) {
	pos, err := t.Position(ctx, user, symbol)
	if err != nil {
		return nil, err
	}
	return pos.Transactions(), nil
}
