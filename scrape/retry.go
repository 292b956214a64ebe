package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pricetrack"
)

// FetchFunc is the signature for a page acquisition function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays used for interactive
// scrapes: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// FetchWithRetryDelays calls fetch and retries retryable failures
// (timeouts, unavailable servers) once per delay. Non-retryable errors
// are returned immediately. A nil or empty delays slice means one attempt.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !pricetrack.IsRetryable(err) {
			break
		}

		if logger != nil {
			logger.Warn("retrying page fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
