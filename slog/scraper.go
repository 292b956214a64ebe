package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pricetrack"
)

// Ensure LoggingScraper implements pricetrack.Scraper.
var _ pricetrack.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper with info logging.
type LoggingScraper struct {
	next   pricetrack.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next pricetrack.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape delegates to the wrapped scraper and logs the outcome.
func (s *LoggingScraper) Scrape(ctx context.Context, url string) (product *pricetrack.ScrapedProduct, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin)}
		if err != nil {
			attrs = append(attrs, "code", pricetrack.ErrorCode(err), "err", err)
		} else {
			attrs = append(attrs, "price", product.Price, "currency", product.Currency, "in_stock", product.InStock)
		}
		s.logger.Info("scrape", attrs...)
	}(time.Now())
	return s.next.Scrape(ctx, url)
}
