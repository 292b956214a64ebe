package main

import (
	"fmt"

	"github.com/fwojciec/pricetrack"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return pricetrack.Errorf(pricetrack.EINVALID, "use --force to confirm deletion")
	}

	item, err := deps.Items.FindItemByID(deps.Ctx, c.ID)
	if err != nil {
		if pricetrack.ErrorCode(err) == pricetrack.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: item %q not found. Use 'pricetrack list' to see tracked items.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pricetrack.ErrorMessage(err))
		}
		return err
	}

	if err := deps.Items.DeleteItem(deps.Ctx, item.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pricetrack.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %q\n", item.Title)
	return nil
}
