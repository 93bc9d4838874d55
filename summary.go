package portfolio

// PositionSummary is the valuation of one position.
type PositionSummary struct {
	Symbol          string
	Name            string
	Type            AssetType
	Quantity        Quantity
	BuyPrice        Money
	CurrentPrice    Money
	Value           Money
	Cost            Money
	GainLoss        Money
	AnnualDividends Money
	Platforms       []string
	Legacy          bool

	// DividendFrequency is the position's frequency, Quarterly when unset.
	DividendFrequency  DividendFrequency
	DividendPerPayment Money
}

// GainLossPercent returns the gain as a percentage of the cost, zero without cost.
func (s PositionSummary) GainLossPercent() float64 {
	if !s.Cost.IsPositive() {
		return 0
	}
	return 100 * s.GainLoss.Float64() / s.Cost.Float64()
}

// Summary is the valuation of a portfolio.
type Summary struct {
	TotalValue      Money
	TotalCost       Money
	TotalGainLoss   Money
	AnnualDividends Money
	Positions       []PositionSummary
}

// Summarize values every position at its current price.
func Summarize(p Portfolio) Summary {
	var s Summary
	for _, pos := range p.positions {
		ps := PositionSummary{
			Symbol:          pos.Symbol,
			Name:            pos.Name,
			Type:            pos.Type,
			Quantity:        pos.Quantity(),
			BuyPrice:        pos.BuyPrice(),
			CurrentPrice:    pos.CurrentPrice,
			Value:           pos.MarketValue(),
			Cost:            pos.Cost(),
			GainLoss:        pos.GainLoss(),
			AnnualDividends: pos.AnnualDividends(),
			Platforms:       Platforms(PlatformBreakdown(pos.Lots())),
			Legacy:          pos.IsLegacy(),
		}
		ps.DividendFrequency = pos.DividendFrequency
		if ps.DividendFrequency == "" {
			ps.DividendFrequency = Quarterly
		}
		ps.DividendPerPayment = ps.AnnualDividends.Div(Q(ps.DividendFrequency.PaymentsPerYear()))
		s.TotalValue = s.TotalValue.Add(ps.Value)
		s.TotalCost = s.TotalCost.Add(ps.Cost)
		s.TotalGainLoss = s.TotalGainLoss.Add(ps.GainLoss)
		s.AnnualDividends = s.AnnualDividends.Add(ps.AnnualDividends)
		s.Positions = append(s.Positions, ps)
	}
	return s
}

// GainLossPercent returns the total gain as a percentage of the total cost.
func (s Summary) GainLossPercent() float64 {
	if !s.TotalCost.IsPositive() {
		return 0
	}
	return 100 * s.TotalGainLoss.Float64() / s.TotalCost.Float64()
}

// ByType returns the position summaries of type t, in portfolio order.
func (s Summary) ByType(t AssetType) []PositionSummary {
	var out []PositionSummary
	for _, ps := range s.Positions {
		if ps.Type == t {
			out = append(out, ps)
		}
	}
	return out
}
