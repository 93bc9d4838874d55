package portfolio

import (
	"errors"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/google/uuid"
)

// BuyRequest records the acquisition of Quantity units of Symbol at Price.
type BuyRequest struct {
	Symbol   string
	Name     string    // used when the position is created, defaults to Symbol
	Type     AssetType // used when the position is created, defaults to Stock
	Quantity Quantity
	Price    Money
	Platform string    // empty means UnknownPlatform
	Date     date.Date // zero means today

	DividendAmount    Money // yearly per share, zero keeps the stored value
	DividendFrequency DividendFrequency
}

// SellRequest records the disposal of Quantity units of Symbol at Price.
type SellRequest struct {
	Symbol   string
	Quantity Quantity
	Price    Money
	Platform string    // empty sells from every platform
	Date     date.Date // zero means today
}

// Engine applies buys and sells to portfolios.
//
// NewID generates lot, transaction and position ids; Today is the date used
// when a request has none. Nil fields fall back to random UUIDs and the
// current day, so the zero Engine is ready to use.
type Engine struct {
	NewID func() string
	Today func() date.Date
}

func (e Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

func (e Engine) today() date.Date {
	if e.Today != nil {
		return e.Today()
	}
	return date.Today()
}

func (e Engine) dateOf(on date.Date) date.Date {
	if on.IsZero() {
		return e.today()
	}
	return on
}

// Buy returns p with req recorded: a new lot and a buy transaction are added
// to the position, created if needed. A legacy position is migrated first.
//
// Buy never modifies p.
func (e Engine) Buy(p Portfolio, req BuyRequest) (Portfolio, error) {
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		return Portfolio{}, badRequest("symbol is required")
	}
	if req.DividendAmount.IsNegative() {
		return Portfolio{}, badRequest("dividend amount must not be negative, got %s", req.DividendAmount)
	}
	// Reject invalid quantities before any id is consumed or migration attempted.
	if !req.Quantity.IsPositive() {
		return Portfolio{}, invalid("buy quantity must be positive, got %s", req.Quantity)
	}
	if !req.Price.IsPositive() {
		return Portfolio{}, invalid("buy price must be positive, got %s", req.Price)
	}
	typ := Stock
	if req.Type != "" {
		t, err := ParseAssetType(string(req.Type))
		if err != nil {
			return Portfolio{}, badRequest("%v", err)
		}
		typ = t
	}
	freq := req.DividendFrequency
	if freq != "" {
		f, err := ParseDividendFrequency(string(freq))
		if err != nil {
			return Portfolio{}, badRequest("%v", err)
		}
		freq = f
	}
	on := e.dateOf(req.Date)
	platform := normalizePlatform(req.Platform)

	i := p.index(symbol)
	var pos Position
	if i < 0 {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = symbol
		}
		pos = Position{
			ID:                e.newID(),
			Symbol:            symbol,
			Name:              name,
			Type:              typ,
			Platform:          platform,
			BuyDate:           on,
			CurrentPrice:      req.Price,
			DividendAmount:    req.DividendAmount,
			DividendFrequency: freq,
		}
	} else {
		var err error
		if pos, err = Migrate(p.positions[i], on, e.newID); err != nil {
			return Portfolio{}, err
		}
		if pos.CurrentPrice.IsZero() {
			pos.CurrentPrice = req.Price
		}
		if req.DividendAmount.IsPositive() {
			pos.DividendAmount = req.DividendAmount
		}
		if freq != "" {
			pos.DividendFrequency = freq
		}
	}

	lot, err := NewLot(e.newID(), on, req.Quantity, req.Price, platform)
	if err != nil {
		return Portfolio{}, err
	}
	tx, err := NewTransaction(e.newID(), on, BuyTx, req.Quantity, req.Price, platform)
	if err != nil {
		return Portfolio{}, err
	}
	if pos.lots, err = AppendLot(pos.lots, lot); err != nil {
		return Portfolio{}, err
	}
	if pos.transactions, err = RecordTransaction(pos.transactions, tx); err != nil {
		return Portfolio{}, err
	}

	if i < 0 {
		return p.appended(pos), nil
	}
	return p.with(i, pos), nil
}

// Sell returns p with req recorded. See SellWithFills.
func (e Engine) Sell(p Portfolio, req SellRequest) (Portfolio, error) {
	next, _, err := e.SellWithFills(p, req)
	return next, err
}

// SellWithFills returns p with req recorded and the lot quantities consumed.
//
// Lots are consumed oldest first, restricted to req.Platform when it is set.
// A position left with no lots is removed from the portfolio. The checks run
// in this order: the position must exist (ErrPositionNotFound), the total
// held must cover the quantity (ErrOversellGlobal), the lots on the platform
// must cover it (ErrOversellPlatform).
func (e Engine) SellWithFills(p Portfolio, req SellRequest) (Portfolio, Fills, error) {
	symbol := normalizeSymbol(req.Symbol)
	i := p.index(symbol)
	if i < 0 {
		return Portfolio{}, nil, &PositionNotFoundError{Symbol: symbol}
	}
	if !req.Quantity.IsPositive() {
		return Portfolio{}, nil, invalid("sell quantity must be positive, got %s", req.Quantity)
	}
	if !req.Price.IsPositive() {
		return Portfolio{}, nil, invalid("sell price must be positive, got %s", req.Price)
	}

	pos := p.positions[i]
	if held := pos.Quantity(); req.Quantity.GreaterThan(held) {
		return Portfolio{}, nil, &OversellError{Kind: ErrOversellGlobal, Symbol: symbol, Requested: req.Quantity, Available: held}
	}

	on := e.dateOf(req.Date)
	pos, err := Migrate(pos, on, e.newID)
	if err != nil {
		return Portfolio{}, nil, err
	}

	platform := canonicalPlatform(req.Platform)
	lots, fills, err := ResolveSell(pos.lots, req.Quantity, platform)
	if err != nil {
		var short *InsufficientInventoryError
		if errors.As(err, &short) {
			return Portfolio{}, nil, &OversellError{
				Kind:      ErrOversellPlatform,
				Symbol:    symbol,
				Platform:  platform,
				Requested: req.Quantity,
				Available: short.Available,
			}
		}
		return Portfolio{}, nil, err
	}

	if len(lots) == 0 {
		return p.without(i), fills, nil
	}

	tx, err := NewTransaction(e.newID(), on, SellTx, req.Quantity, req.Price, platform)
	if err != nil {
		return Portfolio{}, nil, err
	}
	pos.lots = lots
	if pos.transactions, err = RecordTransaction(pos.transactions, tx); err != nil {
		return Portfolio{}, nil, err
	}
	return p.with(i, pos), fills, nil
}

// Buy records req in p using the zero Engine.
func Buy(p Portfolio, req BuyRequest) (Portfolio, error) { return Engine{}.Buy(p, req) }

// Sell records req in p using the zero Engine.
func Sell(p Portfolio, req SellRequest) (Portfolio, error) { return Engine{}.Sell(p, req) }
