package portfolio

import (
	"fmt"
	"slices"
)

// Portfolio is an ordered collection of positions, at most one per symbol.
//
// A Portfolio is immutable: every operation returns a new value and leaves the
// receiver untouched, so a failed operation simply means the caller keeps the
// portfolio it had. The zero Portfolio is empty and ready to use.
type Portfolio struct {
	positions []Position
}

// New returns a portfolio holding positions, in that order.
func New(positions ...Position) (Portfolio, error) {
	seen := make(map[string]bool, len(positions))
	out := make([]Position, 0, len(positions))
	for _, pos := range positions {
		pos.Symbol = normalizeSymbol(pos.Symbol)
		if pos.Symbol == "" {
			return Portfolio{}, badRequest("position %q has no symbol", pos.ID)
		}
		if seen[pos.Symbol] {
			return Portfolio{}, fmt.Errorf("duplicate position for %s", pos.Symbol)
		}
		seen[pos.Symbol] = true
		out = append(out, pos)
	}
	return Portfolio{positions: out}, nil
}

// Len returns the number of positions.
func (p Portfolio) Len() int { return len(p.positions) }

// Positions returns a copy of the positions, in insertion order.
func (p Portfolio) Positions() []Position { return slices.Clone(p.positions) }

// Position returns the position held in symbol, ignoring case.
func (p Portfolio) Position(symbol string) (Position, bool) {
	i := p.index(normalizeSymbol(symbol))
	if i < 0 {
		return Position{}, false
	}
	return p.positions[i], true
}

// Symbols returns the symbols held, in insertion order.
func (p Portfolio) Symbols() []string {
	out := make([]string, len(p.positions))
	for i, pos := range p.positions {
		out[i] = pos.Symbol
	}
	return out
}

func (p Portfolio) index(symbol string) int {
	return slices.IndexFunc(p.positions, func(pos Position) bool { return pos.Symbol == symbol })
}

// with returns a copy of p where the i-th position is replaced by pos.
func (p Portfolio) with(i int, pos Position) Portfolio {
	out := slices.Clone(p.positions)
	out[i] = pos
	return Portfolio{positions: out}
}

// without returns a copy of p without the i-th position.
func (p Portfolio) without(i int) Portfolio {
	return Portfolio{positions: slices.Delete(slices.Clone(p.positions), i, i+1)}
}

// appended returns a copy of p with pos added at the end.
func (p Portfolio) appended(pos Position) Portfolio {
	out := make([]Position, 0, len(p.positions)+1)
	out = append(out, p.positions...)
	return Portfolio{positions: append(out, pos)}
}
