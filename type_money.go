package portfolio

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value: a unit price, a market value or a cost.
//
// A portfolio is accounted in a single currency, so Money does not carry one;
// the currency is only needed to format amounts for display.
type Money struct {
	value decimal.Decimal // as major unit value
}

// M returns the Money for value.
func M[T number](value T) Money {
	return Money{value: newDecimal(value)}
}

// ParseMoney parses a decimal string like "101.25".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, err
	}
	return Money{value: d}, nil
}

func (m Money) Equal(n Money) bool   { return m.value.Equal(n.value) }
func (m Money) IsZero() bool         { return m.value.IsZero() }
func (m Money) IsPositive() bool     { return m.value.IsPositive() }
func (m Money) IsNegative() bool     { return m.value.IsNegative() }
func (m Money) Add(n Money) Money    { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money    { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money { return Money{value: m.value.Div(q.value)} }

// String returns the exact decimal representation.
func (m Money) String() string { return m.value.String() }

// Float64 returns the nearest float64, for display only.
func (m Money) Float64() float64 { return m.value.InexactFloat64() }

// Format renders m as an amount of currency (e.g. "$1,234.50" for USD),
// rounded to the currency's minor unit.
func (m Money) Format(currency string) string {
	cur := money.New(0, currency).Currency()
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// SignedFormat is like Format but prefixes positive amounts with "+".
func (m Money) SignedFormat(currency string) string {
	if m.IsPositive() {
		return "+" + m.Format(currency)
	}
	return m.Format(currency)
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

// UnmarshalJSON reads a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}
