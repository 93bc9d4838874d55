package store

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"

	portfolio "github.com/etnz/folio"
)

// Memory keeps encoded snapshots in memory.
type Memory struct {
	mu    sync.RWMutex
	users map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, user string) (portfolio.Portfolio, error) {
	if err := checkUser(user); err != nil {
		return portfolio.Portfolio{}, err
	}
	m.mu.RLock()
	data, ok := m.users[user]
	m.mu.RUnlock()
	if !ok {
		return portfolio.Portfolio{}, nil
	}
	return portfolio.DecodePortfolio(bytes.NewReader(data))
}

func (m *Memory) Save(_ context.Context, user string, p portfolio.Portfolio) error {
	if err := checkUser(user); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := portfolio.EncodePortfolio(&buf, p); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user] = buf.Bytes()
	return nil
}

func (m *Memory) Users(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.users)), nil
}
