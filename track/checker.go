// Package track keeps tracked items current: it adds new items, re-checks
// their prices and runs periodic sweeps that notify about drops and
// restocks.
package track

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pricetrack"
)

var _ pricetrack.PriceChecker = (*Checker)(nil)

// Checker re-scrapes a tracked item and records what changed.
type Checker struct {
	Items   pricetrack.ItemService
	Scraper pricetrack.Scraper
	Logger  *slog.Logger

	// Now returns the time recorded on new price history entries.
	// Defaults to time.Now.
	Now func() time.Time
}

// CheckPrice re-scrapes the item with the given id. A new price history
// entry is appended only when the price moved by more than
// pricetrack.PriceEpsilon. Stock status is refreshed on every successful
// check. A scraped price of zero is treated as unknown and leaves the
// stored price alone.
func (c *Checker) CheckPrice(ctx context.Context, id string) pricetrack.PriceCheckResult {
	result := pricetrack.PriceCheckResult{ItemID: id}

	item, err := c.Items.FindItemByID(ctx, id)
	if err != nil {
		return failed(result, err)
	}

	product, err := c.Scraper.Scrape(ctx, item.URL)
	if err != nil {
		c.logger().Warn("price check failed", "id", id, "url", item.URL, "err", err)
		return failed(result, err)
	}

	oldPrice, newPrice := item.Price, product.Price
	if oldPrice > 0 {
		result.OldPrice = &oldPrice
	}
	if newPrice > 0 {
		result.NewPrice = &newPrice
	}
	inStock := product.InStock
	result.InStock = &inStock

	if newPrice > 0 && pricetrack.PriceChanged(oldPrice, newPrice) {
		result.PriceChanged = true
		result.PriceDropped = oldPrice > 0 && newPrice < oldPrice
		if pct, ok := pricetrack.PriceChangePercent(oldPrice, newPrice); ok {
			result.PriceChangePercent = &pct
		}

		currency := product.Currency
		if currency == "" {
			currency = item.Currency
		}
		entry := pricetrack.PriceHistoryEntry{
			Price:      newPrice,
			Currency:   currency,
			RecordedAt: c.now(),
		}
		if _, err := c.Items.AppendPriceHistory(ctx, id, entry); err != nil {
			result.PriceChanged = false
			result.PriceDropped = false
			result.PriceChangePercent = nil
			return c.writeFailed(result, item, err)
		}
	}

	if _, err := c.Items.UpdateItem(ctx, id, pricetrack.ItemUpdate{InStock: &inStock}); err != nil {
		return c.writeFailed(result, item, err)
	}

	result.Success = true
	return result
}

// writeFailed reports a storage failure after a successful scrape. A price
// change already committed stays in the result. An item deleted mid-check
// is expected and only logged.
func (c *Checker) writeFailed(result pricetrack.PriceCheckResult, item *pricetrack.Item, err error) pricetrack.PriceCheckResult {
	if pricetrack.ErrorCode(err) == pricetrack.ENOTFOUND {
		c.logger().Warn("item vanished during price check", "id", item.ID, "url", item.URL)
	} else {
		c.logger().Error("failed to save price check", "id", item.ID, "err", err)
	}
	return failed(result, err)
}

func failed(result pricetrack.PriceCheckResult, err error) pricetrack.PriceCheckResult {
	result.Success = false
	result.Error = pricetrack.UserMessage(err)
	result.ErrorCode = pricetrack.ErrorCode(err)
	return result
}

func (c *Checker) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Checker) logger() *slog.Logger {
	return loggerOrDiscard(c.Logger)
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
