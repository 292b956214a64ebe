package mock

import (
	"context"

	"github.com/fwojciec/pricetrack"
)

var (
	_ pricetrack.Fetcher       = (*Fetcher)(nil)
	_ pricetrack.Renderer      = (*Renderer)(nil)
	_ pricetrack.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of pricetrack.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// Renderer is a mock implementation of pricetrack.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string, opts pricetrack.RenderOptions) (string, error)
}

func (r *Renderer) Render(ctx context.Context, url string, opts pricetrack.RenderOptions) (string, error) {
	return r.RenderFn(ctx, url, opts)
}

// DomainLimiter is a mock implementation of pricetrack.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
