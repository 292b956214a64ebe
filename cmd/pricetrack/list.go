package main

import (
	"fmt"

	"github.com/fwojciec/pricetrack"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	var filter pricetrack.ItemFilter
	if c.InStock {
		inStock := true
		filter.InStock = &inStock
	}

	items, err := deps.Items.FindItems(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pricetrack.ErrorMessage(err))
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(deps.Stdout, "No items found. Use 'pricetrack add' to track one.")
		return nil
	}

	for _, item := range items {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n",
			item.ID, item.Title, formatPrice(item.Price, item.Currency), formatStock(item.InStock), item.URL)
	}

	return nil
}
