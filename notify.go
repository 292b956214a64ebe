package pricetrack

import "context"

// Notifier delivers price drop and restock notifications.
// Callers log delivery failures and carry on.
type Notifier interface {
	NotifyPriceDrop(ctx context.Context, item *Item, oldPrice, newPrice, percent float64) error
	NotifyRestock(ctx context.Context, item *Item) error
}
