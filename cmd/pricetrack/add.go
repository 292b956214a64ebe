package main

import (
	"fmt"

	"github.com/fwojciec/pricetrack"
	"github.com/fwojciec/pricetrack/track"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	item, err := deps.Tracker.AddItem(deps.Ctx, c.URL, track.AddOptions{
		SelectedColor: c.Color,
		SelectedSize:  c.Size,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pricetrack.UserMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added %q (%s)\n", item.Title, item.ID)
	fmt.Fprintf(deps.Stdout, "  Price:    %s (%s)\n", formatPrice(item.Price, item.Currency), formatStock(item.InStock))
	category := item.Category
	if item.Subcategory != "" {
		category += " / " + item.Subcategory
	}
	fmt.Fprintf(deps.Stdout, "  Category: %s\n", category)
	return nil
}
