package portfolio

import (
	"fmt"

	"github.com/etnz/folio/date"
)

// sequence returns an id generator yielding prefix-1, prefix-2, ...
func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// testEngine returns an engine with predictable ids and a fixed today.
func testEngine() Engine {
	return Engine{
		NewID: sequence("id"),
		Today: func() date.Date { return date.New(2024, 6, 1) },
	}
}

// day is a shortcut for dates in tests.
func day(s string) date.Date { return date.MustParse(s) }

// mustBuy applies buys in order and panics on error.
func mustBuy(e Engine, p Portfolio, reqs ...BuyRequest) Portfolio {
	for _, req := range reqs {
		var err error
		if p, err = e.Buy(p, req); err != nil {
			panic(fmt.Sprintf("Buy(%+v): %v", req, err))
		}
	}
	return p
}
