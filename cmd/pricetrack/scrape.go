package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/pricetrack"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	product, err := deps.Scraper.Scrape(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pricetrack.UserMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, product)
	}

	fmt.Fprintf(deps.Stdout, "Title:    %s\n", product.Title)
	if product.Brand != "" {
		fmt.Fprintf(deps.Stdout, "Brand:    %s\n", product.Brand)
	}
	fmt.Fprintf(deps.Stdout, "Price:    %s\n", formatPrice(product.Price, product.Currency))
	fmt.Fprintf(deps.Stdout, "Stock:    %s\n", formatStock(product.InStock))
	if colors := pricetrack.ColorNames(product.Colors); len(colors) > 0 {
		fmt.Fprintf(deps.Stdout, "Colors:   %s\n", strings.Join(colors, ", "))
	}
	if sizes := pricetrack.SizeNames(product.Sizes); len(sizes) > 0 {
		fmt.Fprintf(deps.Stdout, "Sizes:    %s\n", strings.Join(sizes, ", "))
	}
	for _, img := range product.Images {
		fmt.Fprintf(deps.Stdout, "Image:    %s\n", img)
	}
	return nil
}
