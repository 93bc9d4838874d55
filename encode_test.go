package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := testEngine()
	p := mustBuy(e, Portfolio{},
		BuyRequest{Symbol: "AAPL", Name: "Apple", Quantity: Q(10), Price: M(100.5), Platform: "Robinhood", Date: day("2024-01-01"), DividendAmount: M(0.96)},
		BuyRequest{Symbol: "BTC", Type: Crypto, Quantity: Q(0.125), Price: M(42000), Platform: "Coinbase", Date: day("2024-01-02")},
	)
	p, err := e.Sell(p, SellRequest{Symbol: "AAPL", Quantity: Q(4), Price: M(120), Date: day("2024-02-01")})
	if err != nil {
		t.Fatalf("Sell() unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodePortfolio(&buf, p); err != nil {
		t.Fatalf("EncodePortfolio() unexpected error: %v", err)
	}
	first := buf.String()

	got, err := DecodePortfolio(strings.NewReader(first))
	if err != nil {
		t.Fatalf("DecodePortfolio() unexpected error: %v", err)
	}
	if second := encoded(t, got); second != first {
		t.Errorf("encoding is not stable:\n%s\nwant\n%s", second, first)
	}
	for _, want := range p.Positions() {
		pos, ok := got.Position(want.Symbol)
		if !ok {
			t.Fatalf("DecodePortfolio() lost %s", want.Symbol)
		}
		if diff := cmp.Diff(want.Lots(), pos.Lots()); diff != "" {
			t.Errorf("%s lots mismatch (-want +got):\n%s", want.Symbol, diff)
		}
		if diff := cmp.Diff(want.Transactions(), pos.Transactions()); diff != "" {
			t.Errorf("%s transactions mismatch (-want +got):\n%s", want.Symbol, diff)
		}
	}
}

func TestPositionFieldOrder(t *testing.T) {
	p := mustBuy(testEngine(), Portfolio{}, BuyRequest{Symbol: "SCHD", Name: "Schwab US Dividend", Type: ETF, Quantity: Q(2), Price: M(75), Platform: "Charles Schwab", Date: day("2024-05-06")})
	pos, _ := p.Position("SCHD")
	got, err := json.Marshal(pos)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	want := `{"id":"id-1","type":"ETF","symbol":"SCHD","name":"Schwab US Dividend","quantity":2,"buyPrice":75,"currentPrice":75,"platform":"Charles Schwab","buyDate":"2024-05-06","dividendAmount":0,` +
		`"lots":[{"id":"id-2","date":"2024-05-06","quantity":2,"price":75,"platform":"Charles Schwab"}],` +
		`"transactions":[{"id":"id-3","date":"2024-05-06","type":"buy","quantity":2,"price":75,"platform":"Charles Schwab"}]}`
	if string(got) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestDecodeLegacy(t *testing.T) {
	const data = `[
  {"id":"1","type":"Stock","symbol":"aapl","name":"Apple","quantity":5,"buyPrice":50,"currentPrice":60,"platform":"Robinhood","buyDate":"2024-01-01","dividendAmount":0.96,"dividendFrequency":"Quarterly"},
  {"id":"2","type":"ETF","symbol":"VOO","name":"Vanguard","quantity":"3","buyPrice":"400","currentPrice":410,"platform":"Vanguard","buyDate":"",
   "lots":[{"id":"l1","date":"2024-02-01","quantity":1,"price":390},{"id":"l2","date":"2024-03-01","quantity":2,"price":405,"platform":"Fidelity"}]}
]`
	p, err := DecodePortfolio(strings.NewReader(data))
	if err != nil {
		t.Fatalf("DecodePortfolio() unexpected error: %v", err)
	}

	aapl, ok := p.Position("AAPL")
	if !ok || !aapl.IsLegacy() {
		t.Fatalf("AAPL = %+v, want a legacy position", aapl)
	}
	if !aapl.Quantity().Equal(Q(5)) || !aapl.BuyPrice().Equal(M(50)) || !aapl.CurrentPrice.Equal(M(60)) {
		t.Errorf("AAPL = %v @ %v (current %v), want 5 @ 50 (current 60)", aapl.Quantity(), aapl.BuyPrice(), aapl.CurrentPrice)
	}

	voo, _ := p.Position("VOO")
	want := Lots{
		{ID: "l1", Date: day("2024-02-01"), Quantity: Q(1), Price: M(390), Platform: "Vanguard"},
		{ID: "l2", Date: day("2024-03-01"), Quantity: Q(2), Price: M(405), Platform: "Fidelity"},
	}
	if diff := cmp.Diff(want, voo.Lots()); diff != "" {
		t.Errorf("VOO lots mismatch (-want +got):\n%s", diff)
	}
	if !voo.BuyPrice().Equal(M(400)) || !voo.BuyDate.IsZero() {
		t.Errorf("VOO buy price %v, date %v, want 400 and no date", voo.BuyPrice(), voo.BuyDate)
	}

	var buf bytes.Buffer
	if err := EncodePortfolio(&buf, p); err != nil {
		t.Fatalf("EncodePortfolio() unexpected error: %v", err)
	}
	if strings.Count(buf.String(), `"lots"`) != 1 {
		t.Errorf("EncodePortfolio() wrote lots for the legacy position:\n%s", buf.String())
	}
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "duplicate symbol", data: `[{"symbol":"AAPL","quantity":1,"buyPrice":1},{"symbol":"aapl","quantity":2,"buyPrice":1}]`},
		{name: "empty position", data: `[{"symbol":"AAPL","quantity":0,"lots":[]}]`},
		{name: "no symbol", data: `[{"quantity":1,"buyPrice":1}]`, wantErr: ErrInvalidRequest},
		{name: "invalid lot", data: `[{"symbol":"AAPL","lots":[{"id":"x","quantity":0,"price":1}]}]`, wantErr: ErrInvalidLot},
		{name: "unknown transaction type", data: `[{"symbol":"AAPL","lots":[{"id":"l","quantity":5,"price":1}],"transactions":[{"id":"t","type":"gift","quantity":5,"price":1}]}]`, wantErr: ErrInvalidRequest},
		{name: "negative transaction quantity", data: `[{"symbol":"AAPL","lots":[{"id":"l","quantity":5,"price":1}],"transactions":[{"id":"t","type":"buy","quantity":-3,"price":1}]}]`, wantErr: ErrInvalidLot},
		{name: "zero transaction price", data: `[{"symbol":"AAPL","quantity":5,"buyPrice":1,"transactions":[{"id":"t","type":"sell","quantity":1,"price":0}]}]`, wantErr: ErrInvalidLot},
		{name: "not an array", data: `{"symbol":"AAPL"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePortfolio(strings.NewReader(tc.data))
			if err == nil {
				t.Fatalf("DecodePortfolio() expected an error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("DecodePortfolio() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, data := range []string{"", "  \n", "null", "[]"} {
		p, err := DecodePortfolio(strings.NewReader(data))
		if err != nil {
			t.Errorf("DecodePortfolio(%q) unexpected error: %v", data, err)
		}
		if p.Len() != 0 {
			t.Errorf("DecodePortfolio(%q) = %d positions, want 0", data, p.Len())
		}
	}
	if got := encoded(t, Portfolio{}); got != "[]\n" {
		t.Errorf("EncodePortfolio(empty) = %q, want %q", got, "[]\n")
	}
}
