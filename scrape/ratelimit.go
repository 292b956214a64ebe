package scrape

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/pricetrack"
	"golang.org/x/time/rate"
)

var _ pricetrack.DomainLimiter = (*DomainLimiter)(nil)

// Host prefixes that front the same storefront.
var storeHostPrefixes = []string{"www.", "www2.", "m.", "shop."}

// DomainLimiter spaces out page requests to each store. A sweep touches
// many items of one store back to back; this keeps those requests at the
// configured rate while requests to other stores go through immediately.
//
// Hosts are keyed by store, so www.zara.com and m.zara.com share a bucket.
type DomainLimiter struct {
	mu     sync.Mutex
	stores map[string]*rate.Limiter
	limit  rate.Limit
}

// NewDomainLimiter allows rps requests per second to each store with no
// bursting. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		stores: make(map[string]*rate.Limiter),
		limit:  limit,
	}
}

// Wait blocks until the store behind host may be requested again.
// Returns the context error if ctx ends first.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if err := d.store(host).Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// The wait would outlast the ctx deadline.
		return context.DeadlineExceeded
	}
	return nil
}

func (d *DomainLimiter) store(host string) *rate.Limiter {
	key := storeKey(host)

	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.stores[key]
	if !ok {
		l = rate.NewLimiter(d.limit, 1)
		d.stores[key] = l
	}
	return l
}

func storeKey(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, prefix := range storeHostPrefixes {
		if rest, ok := strings.CutPrefix(host, prefix); ok && strings.Contains(rest, ".") {
			return rest
		}
	}
	return host
}
