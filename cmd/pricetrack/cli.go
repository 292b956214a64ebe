package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/pricetrack"
	"github.com/fwojciec/pricetrack/track"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Items     pricetrack.ItemService
	Scraper   pricetrack.Scraper
	Tracker   *track.Tracker
	Checker   pricetrack.PriceChecker
	Scheduler *track.Scheduler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" type:"path" help:"Config file (default: ./pricetrack.yaml or ~/.pricetrack/pricetrack.yaml)"`

	Add      AddCmd      `cmd:"" help:"Start tracking a product"`
	List     ListCmd     `cmd:"" help:"List tracked products"`
	History  HistoryCmd  `cmd:"" help:"Show the price history of a product"`
	Delete   DeleteCmd   `cmd:"" help:"Stop tracking a product"`
	Scrape   ScrapeCmd   `cmd:"" help:"Extract product data from a URL without tracking it"`
	Check    CheckCmd    `cmd:"" help:"Re-check the price of one product"`
	CheckAll CheckAllCmd `cmd:"" name:"check-all" help:"Re-check the prices of all products"`
	Watch    WatchCmd    `cmd:"" help:"Re-check all prices periodically until interrupted"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	URL   string `arg:"" help:"Product page URL"`
	Color string `help:"Selected color"`
	Size  string `help:"Selected size"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	InStock bool `help:"Only show products in stock"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	ID string `arg:"" help:"Item ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Item ID"`
	Force bool   `help:"Confirm deletion"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL  string `arg:"" help:"Product page URL"`
	JSON bool   `help:"Print the product as JSON"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	ID   string `arg:"" help:"Item ID"`
	JSON bool   `help:"Print the result as JSON"`
}

// CheckAllCmd is the "check-all" subcommand.
type CheckAllCmd struct {
	JSON bool `help:"Print the results as JSON"`
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	Now bool `help:"Check immediately instead of waiting one interval"`
}
