package main

import (
	"fmt"

	"github.com/fwojciec/pricetrack"
)

// Run executes the watch command. It returns when the context is canceled.
func (c *WatchCmd) Run(deps *Dependencies) error {
	if c.Now {
		deps.Scheduler.RunOnStart = true
	}

	fmt.Fprintf(deps.Stdout, "Checking prices every %s. Press Ctrl+C to stop.\n", deps.Scheduler.Interval)
	if err := deps.Scheduler.Run(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pricetrack.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Stopped.")
	return nil
}
