package pricetrack

import "context"

// PriceEpsilon is the absolute difference below which two prices are equal.
const PriceEpsilon = 0.01

// PriceCheckResult is the outcome of re-checking one tracked item.
type PriceCheckResult struct {
	ItemID       string `json:"itemId"`
	Success      bool   `json:"success"`
	PriceChanged bool   `json:"priceChanged"`
	PriceDropped bool   `json:"priceDropped,omitempty"`

	OldPrice           *float64 `json:"oldPrice,omitempty"`
	NewPrice           *float64 `json:"newPrice,omitempty"`
	PriceChangePercent *float64 `json:"priceChangePercent,omitempty"`

	// InStock is the freshly scraped stock status.
	InStock *bool `json:"inStock,omitempty"`

	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// PriceChecker re-checks the price of a tracked item.
type PriceChecker interface {
	// CheckPrice re-scrapes the item and records any price change.
	// Failures are reported in the result, never returned.
	CheckPrice(ctx context.Context, id string) PriceCheckResult
}

// PriceChanged reports whether two prices differ by more than PriceEpsilon.
func PriceChanged(oldPrice, newPrice float64) bool {
	d := oldPrice - newPrice
	if d < 0 {
		d = -d
	}
	return d > PriceEpsilon
}

// PriceChangePercent returns the change from oldPrice to newPrice in
// percent. Returns false when oldPrice is zero.
func PriceChangePercent(oldPrice, newPrice float64) (float64, bool) {
	if oldPrice == 0 {
		return 0, false
	}
	return (newPrice - oldPrice) / oldPrice * 100, true
}
