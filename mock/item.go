package mock

import (
	"context"

	"github.com/fwojciec/pricetrack"
)

var _ pricetrack.ItemService = (*ItemService)(nil)

// ItemService is a mock implementation of pricetrack.ItemService.
type ItemService struct {
	CreateItemFn         func(ctx context.Context, item *pricetrack.Item) error
	FindItemByIDFn       func(ctx context.Context, id string) (*pricetrack.Item, error)
	FindItemsFn          func(ctx context.Context, filter pricetrack.ItemFilter) ([]*pricetrack.Item, error)
	UpdateItemFn         func(ctx context.Context, id string, upd pricetrack.ItemUpdate) (*pricetrack.Item, error)
	AppendPriceHistoryFn func(ctx context.Context, id string, entry pricetrack.PriceHistoryEntry) (*pricetrack.Item, error)
	DeleteItemFn         func(ctx context.Context, id string) error
}

func (s *ItemService) CreateItem(ctx context.Context, item *pricetrack.Item) error {
	return s.CreateItemFn(ctx, item)
}

func (s *ItemService) FindItemByID(ctx context.Context, id string) (*pricetrack.Item, error) {
	return s.FindItemByIDFn(ctx, id)
}

func (s *ItemService) FindItems(ctx context.Context, filter pricetrack.ItemFilter) ([]*pricetrack.Item, error) {
	return s.FindItemsFn(ctx, filter)
}

func (s *ItemService) UpdateItem(ctx context.Context, id string, upd pricetrack.ItemUpdate) (*pricetrack.Item, error) {
	return s.UpdateItemFn(ctx, id, upd)
}

func (s *ItemService) AppendPriceHistory(ctx context.Context, id string, entry pricetrack.PriceHistoryEntry) (*pricetrack.Item, error) {
	return s.AppendPriceHistoryFn(ctx, id, entry)
}

func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	return s.DeleteItemFn(ctx, id)
}
