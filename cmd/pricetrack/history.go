package main

import (
	"fmt"

	"github.com/fwojciec/pricetrack"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	item, err := deps.Items.FindItemByID(deps.Ctx, c.ID)
	if err != nil {
		if pricetrack.ErrorCode(err) == pricetrack.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: item %q not found. Use 'pricetrack list' to see tracked items.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pricetrack.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s\n", item.Title)
	for _, entry := range item.PriceHistory {
		fmt.Fprintf(deps.Stdout, "  %s  %s\n",
			entry.RecordedAt.Local().Format("2006-01-02 15:04"), formatPrice(entry.Price, entry.Currency))
	}
	return nil
}
