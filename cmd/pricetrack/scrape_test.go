package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/pricetrack"
	main "github.com/fwojciec/pricetrack/cmd/pricetrack"
	"github.com/fwojciec/pricetrack/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scraperReturning(product *pricetrack.ScrapedProduct, err error) *mock.Scraper {
	return &mock.Scraper{
		ScrapeFn: func(context.Context, string) (*pricetrack.ScrapedProduct, error) { return product, err },
	}
}

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	inStock := true
	product := &pricetrack.ScrapedProduct{
		Title:    "Wool Coat",
		Brand:    "Acme",
		Price:    249.5,
		Currency: "£",
		Images:   []string{"https://cdn.example.com/coat.jpg"},
		InStock:  true,
		Colors:   []pricetrack.Color{{Name: "Camel", Available: &inStock}},
		Sizes:    []pricetrack.Size{{Name: "S"}, {Name: "M"}},
		URL:      "https://shop.example.com/coat",
	}

	t.Run("prints product fields", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Scraper: scraperReturning(product, nil)}

		err := (&main.ScrapeCmd{URL: "https://shop.example.com/coat"}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "Title:    Wool Coat")
		assert.Contains(t, output, "Brand:    Acme")
		assert.Contains(t, output, "Price:    £249.50")
		assert.Contains(t, output, "Colors:   Camel")
		assert.Contains(t, output, "Sizes:    S, M")
		assert.Contains(t, output, "Image:    https://cdn.example.com/coat.jpg")
	})

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Scraper: scraperReturning(product, nil)}

		err := (&main.ScrapeCmd{URL: "https://shop.example.com/coat", JSON: true}).Run(deps)

		require.NoError(t, err)
		var got pricetrack.ScrapedProduct
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, "Wool Coat", got.Title)
		assert.InDelta(t, 249.5, got.Price, 1e-9)
	})

	t.Run("prints user message on failure", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr,
			Scraper: scraperReturning(nil, pricetrack.Errorf(pricetrack.EGONE, "HTTP 404")),
		}

		err := (&main.ScrapeCmd{URL: "https://shop.example.com/gone"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "not found")
	})
}
