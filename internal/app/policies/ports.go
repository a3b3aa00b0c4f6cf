package policies

import (
	"context"
	"time"

	"staywise/internal/domain/property"
	"staywise/internal/domain/rate"
)

// QuoteCacheKey identifies one deterministic calculation. Profile and rules
// versions are part of the key so a pricing change naturally misses old
// entries.
type QuoteCacheKey struct {
	PropertyID     property.ID
	CheckIn        time.Time
	CheckOut       time.Time
	Guests         int
	ProfileVersion int64
	RulesVersion   int64
}

// QuoteCache memoizes rate calculation results.
type QuoteCache interface {
	Get(ctx context.Context, key QuoteCacheKey) (*rate.Result, bool)
	Put(ctx context.Context, key QuoteCacheKey, res *rate.Result)
}

// AuditArchiver persists a serialized calculation breakdown for later audit
// and returns a location reference.
type AuditArchiver interface {
	Archive(ctx context.Context, key string, payload any) (string, error)
}
