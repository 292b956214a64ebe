// Package scrape acquires product pages and runs site extractors on them.
// Static pages are fetched over HTTP; stores flagged for rendering go
// through a headless browser. Both paths share the same extractors.
package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pricetrack"
)

var _ pricetrack.Scraper = (*Scraper)(nil)

// Scraper resolves the extractor for a URL, acquires the page and
// extracts the product.
type Scraper struct {
	Extractors pricetrack.ExtractorRegistry
	Fetcher    pricetrack.Fetcher

	// Renderer is used for stores flagged for rendering. When nil those
	// stores fail with ECONFIG.
	Renderer pricetrack.Renderer

	// RateLimiter, when set, spaces out requests to the same host.
	RateLimiter pricetrack.DomainLimiter

	// RetryDelays are waited between attempts after retryable failures.
	// Empty means a single attempt.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Scrape extracts the product at rawURL.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*pricetrack.ScrapedProduct, error) {
	pageURL, err := pricetrack.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	ext := s.Extractors.GetForURL(pageURL)
	if ext == nil {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "no extractor available for %s", pageURL)
	}
	if _, ok := ext.Rendering(); ok {
		return s.ScrapeDynamic(ctx, pageURL)
	}

	html, err := FetchWithRetryDelays(ctx, pageURL, s.fetch, s.logger(), s.RetryDelays)
	if err != nil {
		return nil, err
	}
	return s.extract(ext, html, pageURL)
}

// ScrapeDynamic extracts the product at rawURL through the browser.
// Returns ECONFIG if the host has no registered rendering configuration
// or no Renderer is available.
func (s *Scraper) ScrapeDynamic(ctx context.Context, rawURL string) (*pricetrack.ScrapedProduct, error) {
	pageURL, err := pricetrack.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	ext := s.Extractors.Match(pageURL)
	if ext == nil {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "no rendering configuration for %s", pricetrack.Hostname(pageURL))
	}
	opts, ok := ext.Rendering()
	if !ok {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "site %s is not configured for rendering", ext.Site())
	}
	if s.Renderer == nil {
		return nil, pricetrack.Errorf(pricetrack.ECONFIG, "site %s requires browser rendering, which is disabled", ext.Site())
	}

	render := func(ctx context.Context, url string) (string, error) {
		if err := s.wait(ctx, url); err != nil {
			return "", err
		}
		return s.Renderer.Render(ctx, url, opts)
	}
	html, err := FetchWithRetryDelays(ctx, pageURL, render, s.logger(), s.RetryDelays)
	if err != nil {
		return nil, err
	}
	return s.extract(ext, html, pageURL)
}

func (s *Scraper) fetch(ctx context.Context, url string) (string, error) {
	if err := s.wait(ctx, url); err != nil {
		return "", err
	}
	return s.Fetcher.Fetch(ctx, url)
}

func (s *Scraper) wait(ctx context.Context, url string) error {
	if s.RateLimiter == nil {
		return nil
	}
	return s.RateLimiter.Wait(ctx, pricetrack.Hostname(url))
}

func (s *Scraper) extract(ext pricetrack.ProductExtractor, html, pageURL string) (*pricetrack.ScrapedProduct, error) {
	product, err := ext.Extract(html, pageURL)
	if err != nil {
		return nil, err
	}
	if product.Price == 0 {
		s.logger().Warn("price not found", "url", pageURL, "site", ext.Site())
	}
	return product, nil
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
