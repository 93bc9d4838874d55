package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	portfolio "github.com/etnz/folio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// text renders quotes for comparison.
func text(quotes map[string]portfolio.Money) map[string]string {
	out := make(map[string]string, len(quotes))
	for s, p := range quotes {
		out[s] = p.String()
	}
	return out
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestYahoo(t *testing.T) {
	var query string
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("symbols")
		w.Write([]byte(`{"quoteResponse":{"result":[
			{"symbol":"AAPL","regularMarketPrice":189.5},
			{"symbol":"VOO","regularMarketPrice":455},
			{"symbol":"DEAD","regularMarketPrice":0},
			{"symbol":"NOPRICE"}
		],"error":null}}`))
	})

	y := &Yahoo{Client: srv.Client(), BaseURL: srv.URL}
	got, err := y.Quotes(context.Background(), []Asset{
		{Symbol: "aapl"}, {Symbol: "VOO", Type: portfolio.ETF}, {Symbol: "AAPL"}, {Symbol: "DEAD"}, {Symbol: "NOPRICE"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL,VOO,DEAD,NOPRICE", query)
	assert.Equal(t, map[string]string{"AAPL": "189.5", "VOO": "455"}, text(got))
}

func TestYahooErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
		{name: "unexpected layout", status: http.StatusOK, body: `{"finance":{"error":"gone"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			y := &Yahoo{Client: srv.Client(), BaseURL: srv.URL}
			_, err := y.Quotes(context.Background(), []Asset{{Symbol: "AAPL"}})
			assert.Error(t, err)
		})
	}

	t.Run("status is reported", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := (&Yahoo{Client: srv.Client(), BaseURL: srv.URL}).Quotes(context.Background(), []Asset{{Symbol: "AAPL"}})
		var status *StatusError
		require.True(t, errors.As(err, &status), "error %v is not a *StatusError", err)
		assert.True(t, status.RateLimited())
	})

	t.Run("nothing to quote", func(t *testing.T) {
		y := &Yahoo{BaseURL: "http://127.0.0.1:0"}
		got, err := y.Quotes(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestCoinGecko(t *testing.T) {
	var ids string
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		ids = r.URL.Query().Get("ids")
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"bitcoin":{"usd":64012.5},"matic-network":{"usd":0.71}}`))
	})

	c := &CoinGecko{Client: srv.Client(), BaseURL: srv.URL}
	got, err := c.Quotes(context.Background(), []Asset{
		{Symbol: "BTC", Type: portfolio.Crypto},
		{Symbol: "matic", Type: portfolio.Crypto},
		{Symbol: "ETH", Type: portfolio.Crypto}, // missing from the response
		{Symbol: "PEPE", Type: portfolio.Crypto}, // no coin id
	})
	require.NoError(t, err)
	assert.Equal(t, "bitcoin,matic-network,ethereum", ids)
	assert.Equal(t, map[string]string{"BTC": "64012.5", "MATIC": "0.71"}, text(got))
}

func TestFinnhub(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		switch r.URL.Query().Get("symbol") {
		case "AAPL":
			w.Write([]byte(`{"c":190.25,"d":1.1,"dp":0.58}`))
		default:
			w.Write([]byte(`{"c":0,"d":null,"dp":null}`))
		}
	})

	f := &Finnhub{Token: "secret", Client: srv.Client(), BaseURL: srv.URL}
	got, err := f.Quotes(context.Background(), []Asset{{Symbol: "AAPL"}, {Symbol: "ZZZZ"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"AAPL": "190.25"}, text(got))
	assert.Equal(t, int32(2), calls.Load())

	_, err = (&Finnhub{}).Quotes(context.Background(), []Asset{{Symbol: "AAPL"}})
	assert.Error(t, err, "a missing token must fail")
}

type failing struct{ err error }

func (f failing) Quotes(context.Context, []Asset) (map[string]portfolio.Money, error) {
	return nil, f.err
}

func TestRouter(t *testing.T) {
	stocks := Static{"AAPL": portfolio.M(190)}
	crypto := Static{"BTC": portfolio.M(64000)}
	assets := []Asset{{Symbol: "AAPL", Type: portfolio.Stock}, {Symbol: "BTC", Type: portfolio.Crypto}}

	tests := []struct {
		name    string
		stocks  Provider
		crypto  Provider
		want    map[string]string
		wantErr bool
	}{
		{name: "both classes", stocks: stocks, crypto: crypto, want: map[string]string{"AAPL": "190", "BTC": "64000"}},
		{name: "crypto down", stocks: stocks, crypto: failing{errors.New("429")}, want: map[string]string{"AAPL": "190"}},
		{name: "no crypto provider", stocks: stocks, want: map[string]string{"AAPL": "190"}},
		{name: "everything down", stocks: failing{errors.New("down")}, crypto: failing{errors.New("429")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(tt.stocks, tt.crypto, zerolog.Nop())
			got, err := r.Quotes(context.Background(), assets)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, text(got))
		})
	}
}

type counting struct {
	Provider
	calls int
}

func (c *counting) Quotes(ctx context.Context, assets []Asset) (map[string]portfolio.Money, error) {
	c.calls++
	return c.Provider.Quotes(ctx, assets)
}

func TestCached(t *testing.T) {
	upstream := &counting{Provider: Static{"AAPL": portfolio.M(190), "MSFT": portfolio.M(410)}}
	c := NewCached(upstream, time.Minute, 10*time.Second)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	got, err := c.Quotes(ctx, []Asset{{Symbol: "AAPL"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"AAPL": "190"}, text(got))
	assert.Equal(t, 1, upstream.calls)

	// Within the cooldown, only cached quotes are served.
	now = now.Add(5 * time.Second)
	got, err = c.Quotes(ctx, []Asset{{Symbol: "AAPL"}, {Symbol: "MSFT"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"AAPL": "190"}, text(got))
	assert.Equal(t, 1, upstream.calls)

	// After the cooldown, the missing symbol is fetched, the cached one is not.
	now = now.Add(10 * time.Second)
	got, err = c.Quotes(ctx, []Asset{{Symbol: "AAPL"}, {Symbol: "MSFT"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"AAPL": "190", "MSFT": "410"}, text(got))
	assert.Equal(t, 2, upstream.calls)

	// Everything cached and fresh: upstream is not queried.
	got, err = c.Quotes(ctx, []Asset{{Symbol: "msft"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MSFT": "410"}, text(got))
	assert.Equal(t, 2, upstream.calls)

	c.Invalidate()
	_, err = c.Quotes(ctx, []Asset{{Symbol: "AAPL"}})
	require.NoError(t, err)
	assert.Equal(t, 3, upstream.calls)
}

func TestCurrentPrice(t *testing.T) {
	p := Static{"AAPL": portfolio.M(190)}

	price, ok, err := CurrentPrice(context.Background(), p, Asset{Symbol: "aapl"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "190", price.String())

	_, ok, err = CurrentPrice(context.Background(), p, Asset{Symbol: "TSLA"})
	require.NoError(t, err)
	assert.False(t, ok, "an unquoted symbol is reported missing, not as an error")
}
