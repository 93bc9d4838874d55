package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	portfolio "github.com/etnz/folio"
)

const ext = ".json"

// Dir stores each user's portfolio as a JSON file in a directory.
type Dir struct {
	path string
}

// NewDir returns a store in path, creating the directory if needed.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create store directory: %w", err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) file(user string) string { return filepath.Join(d.path, user+ext) }

func (d *Dir) Load(_ context.Context, user string) (portfolio.Portfolio, error) {
	if err := checkUser(user); err != nil {
		return portfolio.Portfolio{}, err
	}
	f, err := os.Open(d.file(user))
	if errors.Is(err, fs.ErrNotExist) {
		return portfolio.Portfolio{}, nil
	}
	if err != nil {
		return portfolio.Portfolio{}, err
	}
	defer f.Close()
	p, err := portfolio.DecodePortfolio(f)
	if err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("cannot load %s: %w", f.Name(), err)
	}
	return p, nil
}

// Save writes the snapshot to a temporary file and renames it over the
// previous one, so a reader never sees a partial snapshot.
func (d *Dir) Save(_ context.Context, user string, p portfolio.Portfolio) error {
	if err := checkUser(user); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := portfolio.EncodePortfolio(&buf, p); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.path, user+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed
	if _, err := buf.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), d.file(user))
}

func (d *Dir) Users(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, err
	}
	var users []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		users = append(users, strings.TrimSuffix(e.Name(), ext))
	}
	slices.Sort(users)
	return users, nil
}
