package track

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pricetrack"
)

// AddOptions are the shopper's variant choices for a new item.
type AddOptions struct {
	SelectedColor string
	SelectedSize  string
}

// Tracker starts tracking new items.
type Tracker struct {
	Items       pricetrack.ItemService
	Scraper     pricetrack.Scraper
	Categorizer pricetrack.Categorizer
	Logger      *slog.Logger

	// Now returns the time of the initial price history entry.
	// Defaults to time.Now.
	Now func() time.Time
}

// AddItem scrapes rawURL, categorizes the product and stores it with a
// single price history entry. Returns ECONFLICT if the URL is already
// tracked. A failed categorization falls back to pricetrack.DefaultCategory.
func (t *Tracker) AddItem(ctx context.Context, rawURL string, opts AddOptions) (*pricetrack.Item, error) {
	pageURL, err := pricetrack.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	existing, err := t.Items.FindItems(ctx, pricetrack.ItemFilter{URL: &pageURL, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, pricetrack.Errorf(pricetrack.ECONFLICT, "item is already tracked: %s", pageURL)
	}

	product, err := t.Scraper.Scrape(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	cat, err := pricetrack.CategorizeOrDefault(ctx, t.Categorizer, product.Title, product.Brand, pageURL)
	if err != nil {
		t.logger().Warn("categorization failed", "url", pageURL, "err", err)
	}

	now := time.Now()
	if t.Now != nil {
		now = t.Now()
	}

	item := &pricetrack.Item{
		Title:         product.Title,
		Brand:         product.Brand,
		Price:         product.Price,
		Currency:      product.Currency,
		URL:           pageURL,
		Images:        product.Images,
		Category:      cat.Name,
		Subcategory:   cat.Subcategory,
		InStock:       product.InStock,
		Colors:        pricetrack.ColorNames(product.Colors),
		Sizes:         pricetrack.SizeNames(product.Sizes),
		SelectedColor: opts.SelectedColor,
		SelectedSize:  opts.SelectedSize,
		PriceHistory: []pricetrack.PriceHistoryEntry{{
			Price:      product.Price,
			Currency:   product.Currency,
			RecordedAt: now,
		}},
	}
	if err := t.Items.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (t *Tracker) logger() *slog.Logger {
	return loggerOrDiscard(t.Logger)
}
