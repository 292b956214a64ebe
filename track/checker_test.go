package track_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/pricetrack"
	"github.com/fwojciec/pricetrack/mock"
	"github.com/fwojciec/pricetrack/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func trackedItem(price float64, inStock bool) *pricetrack.Item {
	return &pricetrack.Item{
		ID:       "item-1",
		Title:    "Linen Shirt",
		Price:    price,
		Currency: "€",
		URL:      "https://www.farfetch.com/item-1.aspx",
		InStock:  inStock,
		PriceHistory: []pricetrack.PriceHistoryEntry{
			{Price: price, Currency: "€", RecordedAt: checkedAt.Add(-24 * time.Hour)},
		},
	}
}

// checkerFixture wires a Checker to mocks that record writes.
type checkerFixture struct {
	checker  *track.Checker
	appended []pricetrack.PriceHistoryEntry
	updates  []pricetrack.ItemUpdate
}

func newCheckerFixture(item *pricetrack.Item, product *pricetrack.ScrapedProduct, scrapeErr error) *checkerFixture {
	f := &checkerFixture{}
	items := &mock.ItemService{
		FindItemByIDFn: func(_ context.Context, id string) (*pricetrack.Item, error) {
			if id != item.ID {
				return nil, pricetrack.Errorf(pricetrack.ENOTFOUND, "item not found")
			}
			return item, nil
		},
		AppendPriceHistoryFn: func(_ context.Context, _ string, entry pricetrack.PriceHistoryEntry) (*pricetrack.Item, error) {
			f.appended = append(f.appended, entry)
			return item, nil
		},
		UpdateItemFn: func(_ context.Context, _ string, upd pricetrack.ItemUpdate) (*pricetrack.Item, error) {
			f.updates = append(f.updates, upd)
			return item, nil
		},
	}
	f.checker = &track.Checker{
		Items: items,
		Scraper: &mock.Scraper{
			ScrapeFn: func(context.Context, string) (*pricetrack.ScrapedProduct, error) {
				return product, scrapeErr
			},
		},
		Now: func() time.Time { return checkedAt },
	}
	return f
}

func TestChecker_CheckPrice(t *testing.T) {
	t.Parallel()

	t.Run("ignores price noise below epsilon but refreshes stock", func(t *testing.T) {
		t.Parallel()

		f := newCheckerFixture(trackedItem(100, true), &pricetrack.ScrapedProduct{Title: "Linen Shirt", Price: 100.004, Currency: "€", InStock: false}, nil)

		result := f.checker.CheckPrice(context.Background(), "item-1")

		assert.True(t, result.Success)
		assert.False(t, result.PriceChanged)
		assert.False(t, result.PriceDropped)
		assert.Nil(t, result.PriceChangePercent)
		assert.Empty(t, f.appended)
		require.Len(t, f.updates, 1)
		require.NotNil(t, f.updates[0].InStock)
		assert.False(t, *f.updates[0].InStock)
	})

	t.Run("records price drop with percent change", func(t *testing.T) {
		t.Parallel()

		f := newCheckerFixture(trackedItem(100, true), &pricetrack.ScrapedProduct{Title: "Linen Shirt", Price: 80, Currency: "€", InStock: true}, nil)

		result := f.checker.CheckPrice(context.Background(), "item-1")

		assert.True(t, result.Success)
		assert.True(t, result.PriceChanged)
		assert.True(t, result.PriceDropped)
		require.NotNil(t, result.OldPrice)
		require.NotNil(t, result.NewPrice)
		require.NotNil(t, result.PriceChangePercent)
		assert.InDelta(t, 100.0, *result.OldPrice, 1e-9)
		assert.InDelta(t, 80.0, *result.NewPrice, 1e-9)
		assert.InDelta(t, -20.0, *result.PriceChangePercent, 1e-9)
		assert.Equal(t, []pricetrack.PriceHistoryEntry{{Price: 80, Currency: "€", RecordedAt: checkedAt}}, f.appended)
	})

	t.Run("records price increase without drop", func(t *testing.T) {
		t.Parallel()

		f := newCheckerFixture(trackedItem(50, true), &pricetrack.ScrapedProduct{Title: "Linen Shirt", Price: 60, InStock: true}, nil)

		result := f.checker.CheckPrice(context.Background(), "item-1")

		assert.True(t, result.PriceChanged)
		assert.False(t, result.PriceDropped)
		require.NotNil(t, result.PriceChangePercent)
		assert.InDelta(t, 20.0, *result.PriceChangePercent, 1e-9)
		require.Len(t, f.appended, 1)
		assert.Equal(t, "€", f.appended[0].Currency, "keeps stored currency when none was detected")
	})

	t.Run("treats zero scraped price as unknown", func(t *testing.T) {
		t.Parallel()

		f := newCheckerFixture(trackedItem(100, false), &pricetrack.ScrapedProduct{Title: "Linen Shirt", Price: 0, InStock: true}, nil)

		result := f.checker.CheckPrice(context.Background(), "item-1")

		assert.True(t, result.Success)
		assert.False(t, result.PriceChanged)
		assert.False(t, result.PriceDropped)
		assert.Nil(t, result.NewPrice)
		assert.Empty(t, f.appended)
		require.Len(t, f.updates, 1)
		assert.True(t, *f.updates[0].InStock)
	})

	t.Run("records first known price without percent change", func(t *testing.T) {
		t.Parallel()

		f := newCheckerFixture(trackedItem(0, true), &pricetrack.ScrapedProduct{Title: "Linen Shirt", Price: 25, InStock: true}, nil)

		result := f.checker.CheckPrice(context.Background(), "item-1")

		assert.True(t, result.PriceChanged)
		assert.False(t, result.PriceDropped)
		assert.Nil(t, result.OldPrice)
		assert.Nil(t, result.PriceChangePercent)
		assert.Len(t, f.appended, 1)
	})

	t.Run("reports scrape failure in result", func(t *testing.T) {
		t.Parallel()

		f := newCheckerFixture(trackedItem(100, true), nil, pricetrack.Errorf(pricetrack.ETIMEOUT, "request timed out"))

		result := f.checker.CheckPrice(context.Background(), "item-1")

		assert.False(t, result.Success)
		assert.Equal(t, pricetrack.ETIMEOUT, result.ErrorCode)
		assert.Contains(t, result.Error, "too long")
		assert.Empty(t, f.appended)
		assert.Empty(t, f.updates)
	})

	t.Run("reports unknown item", func(t *testing.T) {
		t.Parallel()

		f := newCheckerFixture(trackedItem(100, true), &pricetrack.ScrapedProduct{Title: "Linen Shirt", Price: 90}, nil)

		result := f.checker.CheckPrice(context.Background(), "missing")

		assert.False(t, result.Success)
		assert.Equal(t, "missing", result.ItemID)
		assert.Equal(t, pricetrack.ENOTFOUND, result.ErrorCode)
	})

	t.Run("tolerates item deleted during check", func(t *testing.T) {
		t.Parallel()

		item := trackedItem(100, true)
		checker := &track.Checker{
			Items: &mock.ItemService{
				FindItemByIDFn: func(context.Context, string) (*pricetrack.Item, error) { return item, nil },
				AppendPriceHistoryFn: func(context.Context, string, pricetrack.PriceHistoryEntry) (*pricetrack.Item, error) {
					return nil, pricetrack.Errorf(pricetrack.ENOTFOUND, "item not found")
				},
			},
			Scraper: &mock.Scraper{
				ScrapeFn: func(context.Context, string) (*pricetrack.ScrapedProduct, error) {
					return &pricetrack.ScrapedProduct{Title: "Linen Shirt", Price: 70, InStock: true}, nil
				},
			},
		}

		result := checker.CheckPrice(context.Background(), "item-1")

		assert.False(t, result.Success)
		assert.False(t, result.PriceDropped)
		assert.Equal(t, pricetrack.ENOTFOUND, result.ErrorCode)
	})

	t.Run("reports committed price change when stock update fails", func(t *testing.T) {
		t.Parallel()

		item := trackedItem(100, true)
		var appended []pricetrack.PriceHistoryEntry
		checker := &track.Checker{
			Items: &mock.ItemService{
				FindItemByIDFn: func(context.Context, string) (*pricetrack.Item, error) { return item, nil },
				AppendPriceHistoryFn: func(_ context.Context, _ string, entry pricetrack.PriceHistoryEntry) (*pricetrack.Item, error) {
					appended = append(appended, entry)
					return item, nil
				},
				UpdateItemFn: func(context.Context, string, pricetrack.ItemUpdate) (*pricetrack.Item, error) {
					return nil, errors.New("disk I/O error")
				},
			},
			Scraper: &mock.Scraper{
				ScrapeFn: func(context.Context, string) (*pricetrack.ScrapedProduct, error) {
					return &pricetrack.ScrapedProduct{Title: "Linen Shirt", Price: 80, Currency: "€", InStock: true}, nil
				},
			},
			Now: func() time.Time { return checkedAt },
		}

		result := checker.CheckPrice(context.Background(), "item-1")

		assert.False(t, result.Success)
		assert.Equal(t, pricetrack.EINTERNAL, result.ErrorCode)
		require.Len(t, appended, 1)
		assert.True(t, result.PriceChanged)
		assert.True(t, result.PriceDropped)
		require.NotNil(t, result.NewPrice)
		assert.InDelta(t, 80.0, *result.NewPrice, 1e-9)
		require.NotNil(t, result.PriceChangePercent)
		assert.InDelta(t, -20.0, *result.PriceChangePercent, 1e-9)
	})

	t.Run("grows history by one entry per detected change", func(t *testing.T) {
		t.Parallel()

		item := trackedItem(100, true)
		prices := []float64{90, 90.005, 95, 95, 80}
		call := 0
		checker := &track.Checker{
			Items: &mock.ItemService{
				FindItemByIDFn: func(context.Context, string) (*pricetrack.Item, error) { return item, nil },
				AppendPriceHistoryFn: func(_ context.Context, _ string, entry pricetrack.PriceHistoryEntry) (*pricetrack.Item, error) {
					item.PriceHistory = append(item.PriceHistory, entry)
					item.Price = entry.Price
					return item, nil
				},
				UpdateItemFn: func(context.Context, string, pricetrack.ItemUpdate) (*pricetrack.Item, error) { return item, nil },
			},
			Scraper: &mock.Scraper{
				ScrapeFn: func(context.Context, string) (*pricetrack.ScrapedProduct, error) {
					p := prices[call]
					call++
					return &pricetrack.ScrapedProduct{Title: "Linen Shirt", Price: p, Currency: "€", InStock: true}, nil
				},
			},
		}

		changes := 0
		for range prices {
			if checker.CheckPrice(context.Background(), "item-1").PriceChanged {
				changes++
			}
		}

		assert.Equal(t, 3, changes)
		assert.Len(t, item.PriceHistory, changes+1)
		last, ok := item.LastPrice()
		require.True(t, ok)
		assert.InDelta(t, item.Price, last.Price, 1e-9)
	})
}
