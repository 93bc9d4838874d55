package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	portfolio "github.com/etnz/folio"
	"golang.org/x/sync/errgroup"
)

// FinnhubURL is the quote endpoint of Finnhub.
const FinnhubURL = "https://finnhub.io/api/v1/quote"

// Finnhub quotes stocks one symbol at a time. It needs an API token.
type Finnhub struct {
	Token       string
	Client      *http.Client // nil uses a client with DefaultTimeout
	BaseURL     string       // empty uses FinnhubURL
	Concurrency int          // parallel requests, 4 when zero
}

// Quotes returns the current price ("c") of each asset. Finnhub answers 0 for
// unknown symbols, those are not quoted.
func (f *Finnhub) Quotes(ctx context.Context, assets []Asset) (map[string]portfolio.Money, error) {
	if f.Token == "" {
		return nil, fmt.Errorf("finnhub quotes: no API token")
	}
	client, base := f.Client, f.BaseURL
	if client == nil {
		client = defaultClient()
	}
	if base == "" {
		base = FinnhubURL
	}
	limit := f.Concurrency
	if limit <= 0 {
		limit = 4
	}

	var mu sync.Mutex
	out := make(map[string]portfolio.Money)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, symbol := range symbols(assets) {
		g.Go(func() error {
			q := url.Values{}
			q.Set("symbol", symbol)
			q.Set("token", f.Token)
			var resp struct {
				Current float64 `json:"c"`
			}
			if err := getJSON(ctx, client, base+"?"+q.Encode(), &resp); err != nil {
				return fmt.Errorf("finnhub quote %s: %w", symbol, err)
			}
			if resp.Current <= 0 {
				return nil
			}
			mu.Lock()
			out[symbol] = portfolio.M(resp.Current)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
