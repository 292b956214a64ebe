package pricetrack

import (
	"context"
	"time"
)

// Item is a tracked product.
type Item struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	URL         string   `json:"url"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	InStock     bool     `json:"inStock"`

	// Colors and Sizes are the variant names seen when the item was added.
	Colors        []string `json:"colors,omitempty"`
	Sizes         []string `json:"sizes,omitempty"`
	SelectedColor string   `json:"selectedColor,omitempty"`
	SelectedSize  string   `json:"selectedSize,omitempty"`

	// PriceHistory is append-only and ordered by RecordedAt.
	// Its last entry always carries the current Price.
	PriceHistory []PriceHistoryEntry `json:"priceHistory"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PriceHistoryEntry records the price of an item at a point in time.
type PriceHistoryEntry struct {
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Validate returns an error if the item contains invalid fields.
func (i *Item) Validate() error {
	if i.Title == "" {
		return Errorf(EINVALID, "item title required")
	}
	if i.URL == "" {
		return Errorf(EINVALID, "item URL required")
	}
	if i.Price < 0 {
		return Errorf(EINVALID, "item price must not be negative")
	}
	for k := 1; k < len(i.PriceHistory); k++ {
		if i.PriceHistory[k].RecordedAt.Before(i.PriceHistory[k-1].RecordedAt) {
			return Errorf(EINVALID, "item price history out of order")
		}
	}
	return nil
}

// LastPrice returns the most recent price history entry.
// Returns false if the history is empty.
func (i *Item) LastPrice() (PriceHistoryEntry, bool) {
	if len(i.PriceHistory) == 0 {
		return PriceHistoryEntry{}, false
	}
	return i.PriceHistory[len(i.PriceHistory)-1], true
}

// ItemService represents a service for managing tracked items.
type ItemService interface {
	// CreateItem creates a new item. When the item has no price history,
	// a single entry with its current price is recorded.
	// Returns ECONFLICT if the URL is already tracked.
	CreateItem(ctx context.Context, item *Item) error

	// FindItemByID retrieves an item by ID, including its price history.
	// Returns ENOTFOUND if item does not exist.
	FindItemByID(ctx context.Context, id string) (*Item, error)

	// FindItems retrieves items matching the filter, oldest first.
	FindItems(ctx context.Context, filter ItemFilter) ([]*Item, error)

	// UpdateItem updates an existing item. Price is not updatable here;
	// use AppendPriceHistory.
	// Returns ENOTFOUND if item does not exist.
	UpdateItem(ctx context.Context, id string, upd ItemUpdate) (*Item, error)

	// AppendPriceHistory atomically appends entry to the item's history
	// and sets the item's current price and currency from it.
	// Returns ENOTFOUND if item does not exist and EINVALID if entry is
	// older than the last recorded entry.
	AppendPriceHistory(ctx context.Context, id string, entry PriceHistoryEntry) (*Item, error)

	// DeleteItem permanently removes an item and its price history.
	// Returns ENOTFOUND if item does not exist.
	DeleteItem(ctx context.Context, id string) error
}

// ItemFilter represents a filter for FindItems.
type ItemFilter struct {
	ID      *string `json:"id"`
	URL     *string `json:"url"`
	InStock *bool   `json:"inStock"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ItemUpdate represents fields that can be updated on an item.
type ItemUpdate struct {
	Title         *string   `json:"title"`
	Brand         *string   `json:"brand"`
	Images        *[]string `json:"images"`
	Category      *string   `json:"category"`
	Subcategory   *string   `json:"subcategory"`
	InStock       *bool     `json:"inStock"`
	SelectedColor *string   `json:"selectedColor"`
	SelectedSize  *string   `json:"selectedSize"`
}
