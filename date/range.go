package date

import "fmt"

// Range is a span of days, both ends included.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewRange returns the period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains reports whether on falls within r.
func (r Range) Contains(on Date) bool { return !on.Before(r.From) && !on.After(r.To) }

func (r Range) String() string { return fmt.Sprintf("%s to %s", r.From, r.To) }
