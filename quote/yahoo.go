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

// YahooURL is the batch quote endpoint of Yahoo Finance.
const YahooURL = "https://query1.finance.yahoo.com/v7/finance/quote"

// Yahoo quotes stocks and ETFs in a single batch request.
type Yahoo struct {
	Client  *http.Client // nil uses a client with DefaultTimeout
	BaseURL string       // empty uses YahooURL
}

// Quotes returns the regular market price of assets.
//
//	{"quoteResponse": {"result": [{"symbol": "AAPL", "regularMarketPrice": 189.3}, ...]}}
func (y *Yahoo) Quotes(ctx context.Context, assets []Asset) (map[string]portfolio.Money, error) {
	syms := symbols(assets)
	if len(syms) == 0 {
		return map[string]portfolio.Money{}, nil
	}
	client, base := y.Client, y.BaseURL
	if client == nil {
		client = defaultClient()
	}
	if base == "" {
		base = YahooURL
	}

	addr := base + "?symbols=" + url.QueryEscape(strings.Join(syms, ","))
	var jobj any
	if err := getJSON(ctx, client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("yahoo quotes: %w", err)
	}
	jval, err := jsonpath.Get("$.quoteResponse.result", jobj)
	if err != nil {
		return nil, fmt.Errorf("yahoo quotes: unexpected response: %w", err)
	}
	results, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("yahoo quotes: result is not a list: %v", jval)
	}

	out := make(map[string]portfolio.Money, len(results))
	for _, r := range results {
		q, ok := r.(map[string]any)
		if !ok {
			continue
		}
		symbol, _ := q["symbol"].(string)
		price, ok := q["regularMarketPrice"].(float64)
		if symbol == "" || !ok || price <= 0 {
			continue
		}
		out[strings.ToUpper(symbol)] = portfolio.M(price)
	}
	return out, nil
}
