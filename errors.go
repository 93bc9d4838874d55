package portfolio

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine. Use errors.Is to test for a kind and
// errors.As with the typed errors below to read its context.
var (
	ErrPositionNotFound      = errors.New("position not found")
	ErrOversellGlobal        = errors.New("sell quantity exceeds quantity held")
	ErrOversellPlatform      = errors.New("sell quantity exceeds quantity held on platform")
	ErrInvalidLot            = errors.New("invalid lot")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidRequest        = errors.New("invalid request")
)

// PositionNotFoundError is returned when selling a symbol that is not held.
type PositionNotFoundError struct {
	Symbol string
}

func (e *PositionNotFoundError) Error() string {
	return fmt.Sprintf("no position in %s", e.Symbol)
}

func (e *PositionNotFoundError) Unwrap() error { return ErrPositionNotFound }

// OversellError is returned when a sell asks for more than is held, either in
// total (Kind is ErrOversellGlobal) or on the requested platform (Kind is
// ErrOversellPlatform).
type OversellError struct {
	Kind      error
	Symbol    string
	Platform  string // empty for a global oversell
	Requested Quantity
	Available Quantity
}

func (e *OversellError) Error() string {
	if e.Platform == "" {
		return fmt.Sprintf("cannot sell %s %s: only %s held", e.Requested, e.Symbol, e.Available)
	}
	return fmt.Sprintf("cannot sell %s %s on %s: only %s held there", e.Requested, e.Symbol, e.Platform, e.Available)
}

func (e *OversellError) Unwrap() error { return e.Kind }

// Shortfall is the quantity missing to fulfil the sell.
func (e *OversellError) Shortfall() Quantity { return e.Requested.Sub(e.Available) }

// InsufficientInventoryError is returned by ResolveSell when the eligible lots
// do not hold enough quantity.
type InsufficientInventoryError struct {
	Platform  string // empty when no platform filter was applied
	Requested Quantity
	Available Quantity
	Shortfall Quantity
}

func (e *InsufficientInventoryError) Error() string {
	where := "all platforms"
	if e.Platform != "" {
		where = e.Platform
	}
	return fmt.Sprintf("insufficient inventory on %s: requested %s, available %s, short by %s", where, e.Requested, e.Available, e.Shortfall)
}

func (e *InsufficientInventoryError) Unwrap() error { return ErrInsufficientInventory }

// badRequest returns an ErrInvalidRequest wrapped with a reason.
func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// invalid returns an ErrInvalidLot wrapped with a reason.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidLot, fmt.Sprintf(format, args...))
}
