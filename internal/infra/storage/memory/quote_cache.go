package memory

import (
	"context"
	"sync"

	"staywise/internal/app/policies"
	"staywise/internal/domain/rate"
)

// QuoteCache memoizes calculation results. Version fields in the key make
// entries for an outdated profile or rule set unreachable; Prune drops them.
type QuoteCache struct {
	mu      sync.RWMutex
	entries map[policies.QuoteCacheKey]*rate.Result
}

func NewQuoteCache() *QuoteCache {
	return &QuoteCache{entries: make(map[policies.QuoteCacheKey]*rate.Result)}
}

func (c *QuoteCache) Get(ctx context.Context, key policies.QuoteCacheKey) (*rate.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[key]
	return res, ok
}

func (c *QuoteCache) Put(ctx context.Context, key policies.QuoteCacheKey, res *rate.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = res
}

// Prune removes every entry for the property whose versions no longer match.
func (c *QuoteCache) Prune(propertyID string, profileVersion, rulesVersion int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if string(key.PropertyID) != propertyID {
			continue
		}
		if key.ProfileVersion != profileVersion || key.RulesVersion != rulesVersion {
			delete(c.entries, key)
		}
	}
}

func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ policies.QuoteCache = (*QuoteCache)(nil)
