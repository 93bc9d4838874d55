package portfolio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarize(t *testing.T) {
	e := testEngine()
	p := mustBuy(e, Portfolio{},
		BuyRequest{Symbol: "AAPL", Name: "Apple", Quantity: Q(10), Price: M(100), Platform: "Robinhood", DividendAmount: M(1)},
		BuyRequest{Symbol: "VOO", Type: ETF, Quantity: Q(2), Price: M(400), Platform: "Vanguard", DividendAmount: M(6)},
		BuyRequest{Symbol: "AAPL", Quantity: Q(10), Price: M(200), Platform: "Fidelity"},
	)
	legacy := NewLegacyPosition("x", "ETH", "Ethereum", Crypto, Q(1), M(2000), "", day("2023-01-01"))
	p = p.appended(legacy)
	p = ApplyPrices(p, map[string]Money{"AAPL": M(180), "VOO": M(450), "ETH": M(2500)})

	s := Summarize(p)
	if got, want := s.TotalValue, M(3600+900+2500); !got.Equal(want) {
		t.Errorf("TotalValue = %v, want %v", got, want)
	}
	if got, want := s.TotalCost, M(3000+800+2000); !got.Equal(want) {
		t.Errorf("TotalCost = %v, want %v", got, want)
	}
	if got, want := s.TotalGainLoss, M(600+100+500); !got.Equal(want) {
		t.Errorf("TotalGainLoss = %v, want %v", got, want)
	}
	if got, want := s.AnnualDividends, M(20+12); !got.Equal(want) {
		t.Errorf("AnnualDividends = %v, want %v", got, want)
	}

	aapl := s.Positions[0]
	if !aapl.BuyPrice.Equal(M(150)) || !aapl.GainLoss.Equal(M(600)) || aapl.GainLossPercent() != 20 {
		t.Errorf("AAPL summary = %+v", aapl)
	}
	if diff := cmp.Diff([]string{"Fidelity", "Robinhood"}, aapl.Platforms); diff != "" {
		t.Errorf("AAPL platforms mismatch (-want +got):\n%s", diff)
	}
	if got, want := aapl.DividendPerPayment, M(5); aapl.DividendFrequency != Quarterly || !got.Equal(want) {
		t.Errorf("AAPL dividend = %v %s, want %v %s", got, aapl.DividendFrequency, want, Quarterly)
	}

	testCases := []struct {
		typ  AssetType
		want []string
	}{
		{typ: Stock, want: []string{"AAPL"}},
		{typ: ETF, want: []string{"VOO"}},
		{typ: Crypto, want: []string{"ETH"}},
	}
	for _, tc := range testCases {
		t.Run(string(tc.typ), func(t *testing.T) {
			var got []string
			for _, ps := range s.ByType(tc.typ) {
				got = append(got, ps.Symbol)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ByType(%s) mismatch (-want +got):\n%s", tc.typ, diff)
			}
		})
	}
	if eth := s.ByType(Crypto)[0]; !eth.Legacy {
		t.Errorf("ETH summary does not report the legacy shape")
	}
}

func TestSummarizeDividendPerPayment(t *testing.T) {
	testCases := []struct {
		freq DividendFrequency
		want Money
	}{
		{freq: "", want: M(3)},
		{freq: Monthly, want: M(1)},
		{freq: Quarterly, want: M(3)},
		{freq: SemiAnnually, want: M(6)},
		{freq: Annually, want: M(12)},
	}
	for _, tc := range testCases {
		t.Run(string(tc.freq), func(t *testing.T) {
			p := mustBuy(testEngine(), Portfolio{},
				BuyRequest{Symbol: "VOO", Quantity: Q(2), Price: M(400), DividendAmount: M(6), DividendFrequency: tc.freq},
			)
			ps := Summarize(p).Positions[0]
			if got := ps.DividendPerPayment; !got.Equal(tc.want) {
				t.Errorf("Summarize() dividend per payment = %v, want %v", got, tc.want)
			}
			if ps.DividendFrequency == "" {
				t.Errorf("Summarize() dividend frequency is empty")
			}
		})
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(Portfolio{})
	if !s.TotalValue.IsZero() || len(s.Positions) != 0 || s.GainLossPercent() != 0 {
		t.Errorf("Summarize(empty) = %+v", s)
	}
}

func TestApplyPrices(t *testing.T) {
	p := mustBuy(testEngine(), Portfolio{},
		BuyRequest{Symbol: "AAPL", Quantity: Q(1), Price: M(100)},
		BuyRequest{Symbol: "MSFT", Quantity: Q(1), Price: M(300)},
	)
	before := encoded(t, p)

	next := ApplyPrices(p, map[string]Money{
		"aapl": M(110), // symbols are matched ignoring case
		"MSFT": M(0),   // ignored
		"TSLA": M(250), // not held
	})

	if after := encoded(t, p); after != before {
		t.Errorf("ApplyPrices() modified its input")
	}
	aapl, _ := next.Position("AAPL")
	msft, _ := next.Position("MSFT")
	if !aapl.CurrentPrice.Equal(M(110)) || !msft.CurrentPrice.Equal(M(300)) {
		t.Errorf("ApplyPrices() prices = %v, %v, want 110, 300", aapl.CurrentPrice, msft.CurrentPrice)
	}
	if _, ok := next.Position("TSLA"); ok {
		t.Errorf("ApplyPrices() created a position for an unknown symbol")
	}
	if diff := cmp.Diff(aapl.Lots(), func() Lots { p, _ := p.Position("AAPL"); return p.Lots() }()); diff != "" {
		t.Errorf("ApplyPrices() changed lots (-after +before):\n%s", diff)
	}
}
