package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/pricetrack"
)

// Ensure LoggingNotifier implements pricetrack.Notifier.
var _ pricetrack.Notifier = (*LoggingNotifier)(nil)

// LoggingNotifier logs every notification before delegating. A nil next
// only logs, which is how notifications surface when no email delivery
// is configured.
type LoggingNotifier struct {
	next   pricetrack.Notifier
	logger *slog.Logger
}

// NewLoggingNotifier creates a new LoggingNotifier.
func NewLoggingNotifier(next pricetrack.Notifier, logger *slog.Logger) *LoggingNotifier {
	return &LoggingNotifier{next: next, logger: logger}
}

// NotifyPriceDrop logs the drop and delegates.
func (n *LoggingNotifier) NotifyPriceDrop(ctx context.Context, item *pricetrack.Item, oldPrice, newPrice, percent float64) (err error) {
	defer func() {
		n.logger.Info("price drop",
			"id", item.ID,
			"title", item.Title,
			"old", oldPrice,
			"new", newPrice,
			"percent", percent,
			"err", err,
		)
	}()
	if n.next == nil {
		return nil
	}
	return n.next.NotifyPriceDrop(ctx, item, oldPrice, newPrice, percent)
}

// NotifyRestock logs the restock and delegates.
func (n *LoggingNotifier) NotifyRestock(ctx context.Context, item *pricetrack.Item) (err error) {
	defer func() {
		n.logger.Info("restock",
			"id", item.ID,
			"title", item.Title,
			"err", err,
		)
	}()
	if n.next == nil {
		return nil
	}
	return n.next.NotifyRestock(ctx, item)
}
