package main

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/fwojciec/pricetrack"
)

func formatPrice(price float64, currency string) string {
	if price == 0 {
		return "unknown"
	}
	return pricetrack.CurrencySymbol(currency) + strconv.FormatFloat(price, 'f', 2, 64)
}

func formatStock(inStock bool) string {
	if inStock {
		return "in stock"
	}
	return "out of stock"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
