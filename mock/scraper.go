package mock

import (
	"context"

	"github.com/fwojciec/pricetrack"
)

var (
	_ pricetrack.Scraper      = (*Scraper)(nil)
	_ pricetrack.PriceChecker = (*PriceChecker)(nil)
	_ pricetrack.Notifier     = (*Notifier)(nil)
	_ pricetrack.Categorizer  = (*Categorizer)(nil)
)

// Scraper is a mock implementation of pricetrack.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, url string) (*pricetrack.ScrapedProduct, error)
}

func (s *Scraper) Scrape(ctx context.Context, url string) (*pricetrack.ScrapedProduct, error) {
	return s.ScrapeFn(ctx, url)
}

// PriceChecker is a mock implementation of pricetrack.PriceChecker.
type PriceChecker struct {
	CheckPriceFn func(ctx context.Context, id string) pricetrack.PriceCheckResult
}

func (c *PriceChecker) CheckPrice(ctx context.Context, id string) pricetrack.PriceCheckResult {
	return c.CheckPriceFn(ctx, id)
}

// Notifier is a mock implementation of pricetrack.Notifier.
type Notifier struct {
	NotifyPriceDropFn func(ctx context.Context, item *pricetrack.Item, oldPrice, newPrice, percent float64) error
	NotifyRestockFn   func(ctx context.Context, item *pricetrack.Item) error
}

func (n *Notifier) NotifyPriceDrop(ctx context.Context, item *pricetrack.Item, oldPrice, newPrice, percent float64) error {
	return n.NotifyPriceDropFn(ctx, item, oldPrice, newPrice, percent)
}

func (n *Notifier) NotifyRestock(ctx context.Context, item *pricetrack.Item) error {
	return n.NotifyRestockFn(ctx, item)
}

// Categorizer is a mock implementation of pricetrack.Categorizer.
type Categorizer struct {
	CategorizeFn func(ctx context.Context, title, brand, url string) (*pricetrack.Category, error)
}

func (c *Categorizer) Categorize(ctx context.Context, title, brand, url string) (*pricetrack.Category, error) {
	return c.CategorizeFn(ctx, title, brand, url)
}
