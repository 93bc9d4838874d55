// Package store persists one portfolio snapshot per user.
//
// Snapshots are written whole: a Save replaces the previous snapshot of the
// user, never part of it. Loading a user that was never saved returns an
// empty portfolio.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	portfolio "github.com/etnz/folio"
)

// Store loads and saves portfolios.
type Store interface {
	Load(ctx context.Context, user string) (portfolio.Portfolio, error)
	Save(ctx context.Context, user string, p portfolio.Portfolio) error
	Users(ctx context.Context) ([]string, error)
}

// ErrInvalidUser is returned for user ids that cannot be stored.
var ErrInvalidUser = errors.New("invalid user id")

// checkUser rejects empty ids and ids that could escape a directory.
func checkUser(user string) error {
	if strings.TrimSpace(user) == "" || strings.ContainsAny(user, `/\:`) || user == "." || user == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidUser, user)
	}
	return nil
}

// Open returns a store of the given kind: "memory", "dir" (path is a
// directory) or "sqlite" (path is a database file).
func Open(kind, path string) (Store, error) {
	switch kind {
	case "memory":
		return NewMemory(), nil
	case "dir", "":
		return NewDir(path)
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store kind %q (use memory, dir or sqlite)", kind)
	}
}
