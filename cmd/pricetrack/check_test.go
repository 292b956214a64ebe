package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/pricetrack"
	main "github.com/fwojciec/pricetrack/cmd/pricetrack"
	"github.com/fwojciec/pricetrack/mock"
	"github.com/fwojciec/pricetrack/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCheckCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints price change", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{},
			Checker: &mock.PriceChecker{
				CheckPriceFn: func(_ context.Context, id string) pricetrack.PriceCheckResult {
					return pricetrack.PriceCheckResult{
						ItemID: id, Success: true, PriceChanged: true, PriceDropped: true,
						OldPrice: ptr(100.0), NewPrice: ptr(80.0), PriceChangePercent: ptr(-20.0),
					}
				},
			},
		}

		err := (&main.CheckCmd{ID: "item-1"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "item-1  price changed: 100.00 -> 80.00 (-20.0%)")
	})

	t.Run("prints JSON result", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{},
			Checker: &mock.PriceChecker{
				CheckPriceFn: func(_ context.Context, id string) pricetrack.PriceCheckResult {
					return pricetrack.PriceCheckResult{ItemID: id, Success: true, InStock: ptr(true)}
				},
			},
		}

		err := (&main.CheckCmd{ID: "item-1", JSON: true}).Run(deps)

		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, "item-1", got["itemId"])
		assert.Equal(t, true, got["success"])
		assert.Equal(t, false, got["priceChanged"])
		assert.NotContains(t, got, "oldPrice")
	})

	t.Run("returns error code of failed check", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{},
			Checker: &mock.PriceChecker{
				CheckPriceFn: func(_ context.Context, id string) pricetrack.PriceCheckResult {
					return pricetrack.PriceCheckResult{ItemID: id, ErrorCode: pricetrack.ETIMEOUT, Error: "The store took too long to respond."}
				},
			},
		}

		err := (&main.CheckCmd{ID: "item-1"}).Run(deps)

		assert.Equal(t, pricetrack.ETIMEOUT, pricetrack.ErrorCode(err))
		assert.Contains(t, stdout.String(), "failed: The store took too long to respond.")
	})
}

func TestCheckAllCmd_Run(t *testing.T) {
	t.Parallel()

	newScheduler := func() *track.Scheduler {
		return &track.Scheduler{
			Items: &mock.ItemService{
				FindItemsFn: func(context.Context, pricetrack.ItemFilter) ([]*pricetrack.Item, error) {
					return []*pricetrack.Item{{ID: "a", InStock: true}, {ID: "b", InStock: true}}, nil
				},
			},
			Checker: &mock.PriceChecker{
				CheckPriceFn: func(_ context.Context, id string) pricetrack.PriceCheckResult {
					if id == "b" {
						return pricetrack.PriceCheckResult{ItemID: id, ErrorCode: pricetrack.EBLOCKED, Error: "blocked"}
					}
					return pricetrack.PriceCheckResult{ItemID: id, Success: true}
				},
			},
		}
	}

	t.Run("prints progress and summary", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Scheduler: newScheduler()}

		err := (&main.CheckAllCmd{}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "[1/2] a  unchanged")
		assert.Contains(t, output, "[2/2] b  failed: blocked")
		assert.Contains(t, output, "Checked 2 items, 1 failed")
	})

	t.Run("prints JSON results", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Scheduler: newScheduler()}

		err := (&main.CheckAllCmd{JSON: true}).Run(deps)

		require.NoError(t, err)
		var got []pricetrack.PriceCheckResult
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, pricetrack.EBLOCKED, got[1].ErrorCode)
	})
}
