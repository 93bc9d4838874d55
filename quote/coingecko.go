package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	portfolio "github.com/etnz/folio"
)

// CoinGeckoURL is the simple price endpoint of CoinGecko.
const CoinGeckoURL = "https://api.coingecko.com/api/v3/simple/price"

// CoinGeckoIDs maps crypto symbols to CoinGecko coin ids.
var CoinGeckoIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"DOGE":  "dogecoin",
	"ADA":   "cardano",
	"DOT":   "polkadot",
	"MATIC": "matic-network",
}

// CoinGecko quotes crypto currencies in USD.
type CoinGecko struct {
	Client  *http.Client      // nil uses a client with DefaultTimeout
	BaseURL string            // empty uses CoinGeckoURL
	IDs     map[string]string // symbol to coin id, nil uses CoinGeckoIDs
}

// Quotes returns the USD price of assets. Symbols without a coin id are not quoted.
//
//	{"bitcoin": {"usd": 64012}, "ethereum": {"usd": 3120.5}}
func (c *CoinGecko) Quotes(ctx context.Context, assets []Asset) (map[string]portfolio.Money, error) {
	ids := c.IDs
	if ids == nil {
		ids = CoinGeckoIDs
	}
	wanted := make(map[string]string) // symbol to id
	var list []string
	for _, s := range symbols(assets) {
		if id, ok := ids[s]; ok {
			wanted[s] = id
			list = append(list, id)
		}
	}
	out := make(map[string]portfolio.Money, len(wanted))
	if len(list) == 0 {
		return out, nil
	}

	client, base := c.Client, c.BaseURL
	if client == nil {
		client = defaultClient()
	}
	if base == "" {
		base = CoinGeckoURL
	}
	q := url.Values{}
	q.Set("ids", strings.Join(list, ","))
	q.Set("vs_currencies", "usd")

	var jobj any
	if err := getJSON(ctx, client, base+"?"+q.Encode(), &jobj); err != nil {
		return nil, fmt.Errorf("coingecko quotes: %w", err)
	}
	for symbol, id := range wanted {
		jval, err := jsonpath.Get(fmt.Sprintf("$[%q].usd", id), jobj)
		if err != nil {
			continue // coin not in the response
		}
		if price, ok := jval.(float64); ok && price > 0 {
			out[symbol] = portfolio.M(price)
		}
	}
	return out, nil
}
