package pricetrack_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/pricetrack"
	"github.com/fwojciec/pricetrack/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *pricetrack.Item {
		return &pricetrack.Item{Title: "Dress", URL: "https://example.com/p/1", Price: 10}
	}

	t.Run("accepts valid item", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid().Validate())
	})

	t.Run("requires title", func(t *testing.T) {
		t.Parallel()
		item := valid()
		item.Title = ""
		assert.Equal(t, pricetrack.EINVALID, pricetrack.ErrorCode(item.Validate()))
	})

	t.Run("requires URL", func(t *testing.T) {
		t.Parallel()
		item := valid()
		item.URL = ""
		assert.Equal(t, pricetrack.EINVALID, pricetrack.ErrorCode(item.Validate()))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		t.Parallel()
		item := valid()
		item.Price = -1
		assert.Equal(t, pricetrack.EINVALID, pricetrack.ErrorCode(item.Validate()))
	})

	t.Run("rejects out of order history", func(t *testing.T) {
		t.Parallel()
		now := time.Now()
		item := valid()
		item.PriceHistory = []pricetrack.PriceHistoryEntry{
			{Price: 10, RecordedAt: now},
			{Price: 9, RecordedAt: now.Add(-time.Hour)},
		}
		assert.Equal(t, pricetrack.EINVALID, pricetrack.ErrorCode(item.Validate()))
	})
}

func TestItem_LastPrice(t *testing.T) {
	t.Parallel()

	t.Run("returns false for empty history", func(t *testing.T) {
		t.Parallel()
		_, ok := (&pricetrack.Item{}).LastPrice()
		assert.False(t, ok)
	})

	t.Run("returns last entry", func(t *testing.T) {
		t.Parallel()
		item := &pricetrack.Item{PriceHistory: []pricetrack.PriceHistoryEntry{{Price: 10}, {Price: 8}}}
		last, ok := item.LastPrice()
		require.True(t, ok)
		assert.InDelta(t, 8.0, last.Price, 0.0001)
	})
}

func TestColorAndSizeNames(t *testing.T) {
	t.Parallel()

	colors := []pricetrack.Color{{Name: "Black"}, {Name: ""}, {Name: "Ivory"}}
	sizes := []pricetrack.Size{{Name: "S"}, {Name: "M"}}

	assert.Equal(t, []string{"Black", "Ivory"}, pricetrack.ColorNames(colors))
	assert.Equal(t, []string{"S", "M"}, pricetrack.SizeNames(sizes))
	assert.Empty(t, pricetrack.ColorNames(nil))
}

func TestCategorizeOrDefault(t *testing.T) {
	t.Parallel()

	t.Run("returns categorizer result", func(t *testing.T) {
		t.Parallel()
		c := &mock.Categorizer{
			CategorizeFn: func(_ context.Context, title, brand, url string) (*pricetrack.Category, error) {
				return &pricetrack.Category{Name: "Shoes", Subcategory: "Sneakers"}, nil
			},
		}

		got, err := pricetrack.CategorizeOrDefault(context.Background(), c, "Runner", "", "")

		require.NoError(t, err)
		assert.Equal(t, pricetrack.Category{Name: "Shoes", Subcategory: "Sneakers"}, got)
	})

	t.Run("falls back on error", func(t *testing.T) {
		t.Parallel()
		c := &mock.Categorizer{
			CategorizeFn: func(_ context.Context, title, brand, url string) (*pricetrack.Category, error) {
				return nil, errors.New("quota exceeded")
			},
		}

		got, err := pricetrack.CategorizeOrDefault(context.Background(), c, "Runner", "", "")

		assert.Error(t, err)
		assert.Equal(t, pricetrack.DefaultCategory, got.Name)
	})

	t.Run("falls back on unknown category", func(t *testing.T) {
		t.Parallel()
		c := &mock.Categorizer{
			CategorizeFn: func(_ context.Context, title, brand, url string) (*pricetrack.Category, error) {
				return &pricetrack.Category{Name: "Spaceships"}, nil
			},
		}

		got, err := pricetrack.CategorizeOrDefault(context.Background(), c, "Rocket", "", "")

		assert.Error(t, err)
		assert.Equal(t, pricetrack.DefaultCategory, got.Name)
	})

	t.Run("uses default without categorizer", func(t *testing.T) {
		t.Parallel()

		got, err := pricetrack.CategorizeOrDefault(context.Background(), nil, "Runner", "", "")

		require.NoError(t, err)
		assert.Equal(t, pricetrack.DefaultCategory, got.Name)
	})
}
