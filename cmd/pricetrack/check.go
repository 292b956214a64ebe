package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/pricetrack"
	"github.com/fwojciec/pricetrack/track"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	result := deps.Checker.CheckPrice(deps.Ctx, c.ID)

	if c.JSON {
		if err := writeJSON(deps.Stdout, result); err != nil {
			return err
		}
	} else {
		printResult(deps.Stdout, result)
	}

	if !result.Success {
		return pricetrack.Errorf(result.ErrorCode, "%s", result.Error)
	}
	return nil
}

// Run executes the check-all command.
func (c *CheckAllCmd) Run(deps *Dependencies) error {
	if !c.JSON {
		deps.Scheduler.Progress = func(event track.ProgressEvent) {
			fmt.Fprintf(deps.Stdout, "[%d/%d] ", event.Completed, event.Total)
			printResult(deps.Stdout, event.Result)
		}
	}

	results, err := deps.Scheduler.CheckAll(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pricetrack.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if results == nil {
			results = []pricetrack.PriceCheckResult{}
		}
		return writeJSON(deps.Stdout, results)
	}

	var failed int
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	fmt.Fprintf(deps.Stdout, "Checked %d items, %d failed\n", len(results), failed)
	return nil
}

func printResult(w io.Writer, r pricetrack.PriceCheckResult) {
	switch {
	case !r.Success:
		fmt.Fprintf(w, "%s  failed: %s\n", r.ItemID, r.Error)
	case r.PriceChanged && r.NewPrice != nil:
		var old float64
		if r.OldPrice != nil {
			old = *r.OldPrice
		}
		line := fmt.Sprintf("%s  price changed: %.2f -> %.2f", r.ItemID, old, *r.NewPrice)
		if r.PriceChangePercent != nil {
			line += fmt.Sprintf(" (%+.1f%%)", *r.PriceChangePercent)
		}
		fmt.Fprintln(w, line)
	default:
		fmt.Fprintf(w, "%s  unchanged\n", r.ItemID)
	}
}
