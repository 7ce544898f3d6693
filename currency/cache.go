package currency

import (
	"slices"
	"strings"
	"sync"
)

type cacheKey struct {
	date     string
	currency string
}

// RateCache holds exchange rates keyed by (ISO date, currency). Concurrent
// writers to the same key resolve last-write-wins.
type RateCache struct {
	mu    sync.RWMutex
	rates map[cacheKey]ExchangeRate
}

func NewRateCache() *RateCache {
	return &RateCache{rates: make(map[cacheKey]ExchangeRate)}
}

func (c *RateCache) Get(date, currency string) (ExchangeRate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.rates[cacheKey{date: date, currency: currency}]
	return r, ok
}

func (c *RateCache) Set(r ExchangeRate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates[cacheKey{date: r.RateDate, currency: r.Currency}] = r
}

// Snapshot returns a copy of every cached rate ordered by date, then currency.
func (c *RateCache) Snapshot() []ExchangeRate {
	c.mu.RLock()
	out := make([]ExchangeRate, 0, len(c.rates))
	for _, r := range c.rates {
		out = append(out, r)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b ExchangeRate) int {
		if n := strings.Compare(a.RateDate, b.RateDate); n != 0 {
			return n
		}
		return strings.Compare(a.Currency, b.Currency)
	})

	return out
}

func (c *RateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.rates)
}
