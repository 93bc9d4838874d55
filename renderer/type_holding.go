package renderer

import (
	portfolio "github.com/etnz/folio"
)

// Holding is the data of the holdings report.
type Holding struct {
	User     string `json:"user,omitempty"`
	Currency string `json:"currency"`

	TotalValue      portfolio.Money `json:"totalValue"`
	TotalCost       portfolio.Money `json:"totalCost"`
	TotalGainLoss   portfolio.Money `json:"totalGainLoss"`
	GainLossPercent float64         `json:"gainLossPercent"`
	AnnualDividends portfolio.Money `json:"annualDividends"`

	// Groups lists the positions by asset type, empty groups omitted.
	Groups []HoldingGroup `json:"groups"`
}

// HoldingGroup is the set of positions of one asset type.
type HoldingGroup struct {
	Title string          `json:"title"`
	Value portfolio.Money `json:"value"`
	Rows  []HoldingRow    `json:"rows"`
}

// HoldingRow is one position of the holdings report.
type HoldingRow struct {
	Symbol          string             `json:"symbol"`
	Name            string             `json:"name"`
	Quantity        portfolio.Quantity `json:"quantity"`
	BuyPrice        portfolio.Money    `json:"buyPrice"`
	CurrentPrice    portfolio.Money    `json:"currentPrice"`
	Value           portfolio.Money    `json:"value"`
	GainLoss        portfolio.Money    `json:"gainLoss"`
	GainLossPercent float64            `json:"gainLossPercent"`
	Platforms       []string           `json:"platforms"`
	Legacy          bool               `json:"legacy,omitempty"`

	// DividendPerPayment is zero for positions paying no dividend.
	DividendPerPayment portfolio.Money `json:"dividendPerPayment"`
	DividendFrequency  string          `json:"dividendFrequency,omitempty"`
}

var groupTitles = map[portfolio.AssetType]string{
	portfolio.Stock:  "Stocks",
	portfolio.ETF:    "ETFs",
	portfolio.Crypto: "Crypto",
}

// NewHolding builds the holdings report of a portfolio summary.
func NewHolding(s portfolio.Summary, user, currency string) *Holding {
	h := &Holding{
		User:            user,
		Currency:        currency,
		TotalValue:      s.TotalValue,
		TotalCost:       s.TotalCost,
		TotalGainLoss:   s.TotalGainLoss,
		GainLossPercent: s.GainLossPercent(),
		AnnualDividends: s.AnnualDividends,
	}

	types := append([]portfolio.AssetType{}, portfolio.AssetTypes...)
	// positions of unexpected types still show up, last
	for _, ps := range s.Positions {
		if _, known := groupTitles[ps.Type]; !known && !contains(types, ps.Type) {
			types = append(types, ps.Type)
		}
	}

	for _, t := range types {
		positions := s.ByType(t)
		if len(positions) == 0 {
			continue
		}
		title, ok := groupTitles[t]
		if !ok {
			title = string(t)
			if title == "" {
				title = "Other"
			}
		}
		g := HoldingGroup{Title: title}
		for _, ps := range positions {
			g.Value = g.Value.Add(ps.Value)
			row := HoldingRow{
				Symbol:          ps.Symbol,
				Name:            ps.Name,
				Quantity:        ps.Quantity,
				BuyPrice:        ps.BuyPrice,
				CurrentPrice:    ps.CurrentPrice,
				Value:           ps.Value,
				GainLoss:        ps.GainLoss,
				GainLossPercent: ps.GainLossPercent(),
				Platforms:       ps.Platforms,
				Legacy:          ps.Legacy,
			}
			if ps.DividendPerPayment.IsPositive() {
				row.DividendPerPayment = ps.DividendPerPayment
				row.DividendFrequency = string(ps.DividendFrequency)
			}
			g.Rows = append(g.Rows, row)
		}
		h.Groups = append(h.Groups, g)
	}
	return h
}

func contains(types []portfolio.AssetType, t portfolio.AssetType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
