package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/pricetrack"
	"github.com/fwojciec/pricetrack/mock"
	ptslog "github.com/fwojciec/pricetrack/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("logs price and stock", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Scraper{
			ScrapeFn: func(context.Context, string) (*pricetrack.ScrapedProduct, error) {
				return &pricetrack.ScrapedProduct{Title: "Coat", Price: 199.9, Currency: "£", InStock: true}, nil
			},
		}

		scraper := ptslog.NewLoggingScraper(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		product, err := scraper.Scrape(context.Background(), "https://shop.example.com/coat")

		require.NoError(t, err)
		assert.Equal(t, "Coat", product.Title)
		output := buf.String()
		assert.Contains(t, output, "msg=scrape")
		assert.Contains(t, output, "price=199.9")
		assert.Contains(t, output, "in_stock=true")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Scraper{
			ScrapeFn: func(context.Context, string) (*pricetrack.ScrapedProduct, error) {
				return nil, pricetrack.Errorf(pricetrack.EBLOCKED, "HTTP 403")
			},
		}

		scraper := ptslog.NewLoggingScraper(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := scraper.Scrape(context.Background(), "https://shop.example.com/coat")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "code=blocked")
		assert.NotContains(t, output, "price=")
	})
}
