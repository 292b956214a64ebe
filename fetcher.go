package pricetrack

import "context"

// Fetcher retrieves raw page HTML over HTTP.
type Fetcher interface {
	// Fetch issues a single GET request and returns the decoded body.
	// Transport failures map to ETIMEOUT, EBLOCKED, EGONE or EUNAVAILABLE.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases idle connections.
	Close() error
}

// Renderer retrieves HTML after client-side script has run.
type Renderer interface {
	// Render loads the URL in an isolated headless browser, waits for
	// opts.ReadySelector plus opts.SettleDelay and returns the rendered HTML.
	// The browser is torn down before Render returns.
	Render(ctx context.Context, url string, opts RenderOptions) (html string, err error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
