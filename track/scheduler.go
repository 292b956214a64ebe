package track

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/pricetrack"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultInterval is the time between scheduled sweeps.
	DefaultInterval = 12 * time.Hour

	// DefaultItemDelay is the pause after each item in a sweep.
	DefaultItemDelay = time.Second
)

// ProgressEvent reports progress during a sweep.
type ProgressEvent struct {
	Completed int
	Total     int
	Result    pricetrack.PriceCheckResult
}

// ProgressFunc is a callback invoked after each item of a sweep.
type ProgressFunc func(event ProgressEvent)

// Scheduler re-checks every tracked item, on demand or periodically, and
// sends notifications for price drops and restocks.
type Scheduler struct {
	Items    pricetrack.ItemService
	Checker  pricetrack.PriceChecker
	Notifier pricetrack.Notifier
	Logger   *slog.Logger

	// Interval between sweeps started by Run. Defaults to DefaultInterval.
	Interval time.Duration

	// ItemDelay is waited after each item whatever its outcome.
	// Zero means no delay.
	ItemDelay time.Duration

	// Concurrency is the number of items checked at once. Values below 1
	// mean items are checked one after another.
	Concurrency int

	// RunOnStart makes Run sweep immediately instead of waiting for the
	// first tick.
	RunOnStart bool

	// Progress, when set, is called after each item.
	Progress ProgressFunc

	running atomic.Bool
}

// CheckAll checks every tracked item and returns one result per item in
// storage order. Item failures are reported in their results and never
// stop the sweep. Returns ECONFLICT if a sweep is already running.
func (s *Scheduler) CheckAll(ctx context.Context) ([]pricetrack.PriceCheckResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, pricetrack.Errorf(pricetrack.ECONFLICT, "price check sweep already running")
	}
	defer s.running.Store(false)

	items, err := s.Items.FindItems(ctx, pricetrack.ItemFilter{})
	if err != nil {
		return nil, err
	}

	concurrency := s.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]pricetrack.PriceCheckResult, len(items))
	checked := make([]bool, len(items))
	var completed atomic.Int64
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = s.checkItem(ctx, item)
			checked[i] = true
			n := completed.Add(1)
			if s.Progress != nil {
				mu.Lock()
				s.Progress(ProgressEvent{Completed: int(n), Total: len(items), Result: results[i]})
				mu.Unlock()
			}
			sleep(ctx, s.ItemDelay)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		var partial []pricetrack.PriceCheckResult
		for i, ok := range checked {
			if ok {
				partial = append(partial, results[i])
			}
		}
		return partial, err
	}
	return results, nil
}

func (s *Scheduler) checkItem(ctx context.Context, item *pricetrack.Item) pricetrack.PriceCheckResult {
	wasOutOfStock := !item.InStock

	result := s.Checker.CheckPrice(ctx, item.ID)
	// A drop committed before a later write failed is still notified.
	if !result.Success && !result.PriceDropped {
		return result
	}

	dropped := result.PriceDropped && result.OldPrice != nil && result.NewPrice != nil
	if !dropped && !wasOutOfStock {
		return result
	}

	// Notifications describe the item as written by the check.
	updated, err := s.Items.FindItemByID(ctx, item.ID)
	if err != nil {
		s.logger().Warn("failed to reload item after price check", "id", item.ID, "err", err)
		return result
	}

	if dropped {
		var pct float64
		if result.PriceChangePercent != nil {
			pct = *result.PriceChangePercent
		}
		s.notify("price_drop", updated, func() error {
			return s.Notifier.NotifyPriceDrop(ctx, updated, *result.OldPrice, *result.NewPrice, pct)
		})
	}
	if wasOutOfStock && updated.InStock && result.Success {
		s.notify("restock", updated, func() error {
			return s.Notifier.NotifyRestock(ctx, updated)
		})
	}
	return result
}

func (s *Scheduler) notify(kind string, item *pricetrack.Item, send func() error) {
	if s.Notifier == nil {
		return
	}
	if err := send(); err != nil {
		s.logger().Warn("notification failed", "kind", kind, "id", item.ID, "err", err)
	}
}

// Run sweeps every Interval until ctx is canceled. A firing that finds the
// previous sweep still running is skipped. Run waits for an in-flight
// sweep to stop before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	start := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.sweep(ctx)
		}()
	}

	if s.RunOnStart {
		start()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.running.Load() {
				s.logger().Warn("previous price check sweep still running, skipping")
				continue
			}
			start()
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	defer func(begin time.Time) {
		s.logger().Debug("sweep", "duration", time.Since(begin))
	}(time.Now())

	results, err := s.CheckAll(ctx)
	switch {
	case pricetrack.ErrorCode(err) == pricetrack.ECONFLICT:
		s.logger().Warn("previous price check sweep still running, skipping")
		return
	case ctx.Err() != nil:
		return
	case err != nil:
		s.logger().Error("price check sweep failed", "err", err)
		return
	}

	var failed, dropped int
	for _, r := range results {
		if !r.Success {
			failed++
		}
		if r.PriceDropped {
			dropped++
		}
	}
	s.logger().Info("price check sweep finished", "checked", len(results), "failed", failed, "dropped", dropped)
}

func (s *Scheduler) logger() *slog.Logger {
	return loggerOrDiscard(s.Logger)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
