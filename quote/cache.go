package quote

import (
	"context"
	"sync"
	"time"

	portfolio "github.com/etnz/folio"
)

// DefaultCooldown is the minimum delay between two upstream fetches.
const DefaultCooldown = 10 * time.Second

// Cached wraps a Provider with a quote cache.
//
// A quote younger than TTL is served from the cache. Upstream is queried at
// most once per Cooldown; in between, only cached quotes are served and the
// others are reported missing.
type Cached struct {
	upstream Provider
	ttl      time.Duration
	cooldown time.Duration
	now      func() time.Time

	mu        sync.Mutex
	entries   map[string]cacheEntry
	lastFetch time.Time
}

type cacheEntry struct {
	price portfolio.Money
	at    time.Time
}

// NewCached returns a caching provider. A zero cooldown disables the fetch rate limit.
func NewCached(upstream Provider, ttl, cooldown time.Duration) *Cached {
	return &Cached{
		upstream: upstream,
		ttl:      ttl,
		cooldown: cooldown,
		now:      time.Now,
		entries:  make(map[string]cacheEntry),
	}
}

// Quotes implements Provider.
func (c *Cached) Quotes(ctx context.Context, assets []Asset) (map[string]portfolio.Money, error) {
	out := make(map[string]portfolio.Money)
	var missing []Asset

	c.mu.Lock()
	now := c.now()
	for _, a := range assets {
		symbol := symbols([]Asset{a})
		if len(symbol) == 0 {
			continue
		}
		if e, ok := c.entries[symbol[0]]; ok && now.Sub(e.at) < c.ttl {
			out[symbol[0]] = e.price
			continue
		}
		missing = append(missing, a)
	}
	if len(missing) == 0 || (!c.lastFetch.IsZero() && now.Sub(c.lastFetch) < c.cooldown) {
		c.mu.Unlock()
		return out, nil
	}
	c.lastFetch = now
	c.mu.Unlock()

	fresh, err := c.upstream.Quotes(ctx, missing)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	at := c.now()
	for symbol, price := range fresh {
		c.entries[symbol] = cacheEntry{price: price, at: at}
		out[symbol] = price
	}
	return out, nil
}

// Invalidate drops every cached quote and resets the cooldown.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.lastFetch = time.Time{}
}
