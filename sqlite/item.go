package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/pricetrack"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pricetrack.ItemService = (*ItemService)(nil)

// queryer is satisfied by *DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const itemColumns = `id, title, brand, price, currency, url, images, category, subcategory,
	in_stock, colors, sizes, selected_color, selected_size, created_at, updated_at`

// ItemService implements pricetrack.ItemService using SQLite.
type ItemService struct {
	db *DB
}

// NewItemService creates a new ItemService.
func NewItemService(db *DB) *ItemService {
	return &ItemService{db: db}
}

// CreateItem creates a new item. The item's current price is taken from
// the last price history entry; an empty history gets one entry for the
// current price.
func (s *ItemService) CreateItem(ctx context.Context, item *pricetrack.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM items WHERE url = ?", item.URL).Scan(&exists)
	if err == nil {
		return pricetrack.Errorf(pricetrack.ECONFLICT, "item is already tracked: %s", item.URL)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	item.ID = uuid.New().String()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	if len(item.PriceHistory) == 0 {
		item.PriceHistory = []pricetrack.PriceHistoryEntry{{
			Price:      item.Price,
			Currency:   item.Currency,
			RecordedAt: now,
		}}
	}
	last, _ := item.LastPrice()
	item.Price = last.Price
	item.Currency = last.Currency

	images, err := encodeStrings(item.Images)
	if err != nil {
		return err
	}
	colors, err := encodeStrings(item.Colors)
	if err != nil {
		return err
	}
	sizes, err := encodeStrings(item.Sizes)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Title, item.Brand, item.Price, item.Currency, item.URL, images,
		item.Category, item.Subcategory, item.InStock, colors, sizes,
		item.SelectedColor, item.SelectedSize, formatTime(item.CreatedAt), formatTime(item.UpdatedAt))
	if err != nil {
		return err
	}

	for _, entry := range item.PriceHistory {
		if err := insertHistory(ctx, tx, item.ID, entry); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindItemByID retrieves an item by ID, including its price history.
func (s *ItemService) FindItemByID(ctx context.Context, id string) (*pricetrack.Item, error) {
	return findItemByID(ctx, s.db, id)
}

// FindItems retrieves items matching the filter in insertion order.
func (s *ItemService) FindItems(ctx context.Context, filter pricetrack.ItemFilter) ([]*pricetrack.Item, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + itemColumns + " FROM items WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.InStock != nil {
		query.WriteString(" AND in_stock = ?")
		args = append(args, *filter.InStock)
	}

	query.WriteString(" ORDER BY rowid")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*pricetrack.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// The connection is released before loading history; there is only one.
	rows.Close()

	for _, item := range items {
		if item.PriceHistory, err = findHistory(ctx, s.db, item.ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// UpdateItem updates an existing item.
func (s *ItemService) UpdateItem(ctx context.Context, id string, upd pricetrack.ItemUpdate) (*pricetrack.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	item, err := findItemByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Brand != nil {
		item.Brand = *upd.Brand
	}
	if upd.Images != nil {
		item.Images = *upd.Images
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}
	if upd.Subcategory != nil {
		item.Subcategory = *upd.Subcategory
	}
	if upd.InStock != nil {
		item.InStock = *upd.InStock
	}
	if upd.SelectedColor != nil {
		item.SelectedColor = *upd.SelectedColor
	}
	if upd.SelectedSize != nil {
		item.SelectedSize = *upd.SelectedSize
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	images, err := encodeStrings(item.Images)
	if err != nil {
		return nil, err
	}

	item.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE items
		SET title = ?, brand = ?, images = ?, category = ?, subcategory = ?, in_stock = ?,
			selected_color = ?, selected_size = ?, updated_at = ?
		WHERE id = ?
	`, item.Title, item.Brand, images, item.Category, item.Subcategory, item.InStock,
		item.SelectedColor, item.SelectedSize, formatTime(item.UpdatedAt), id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

// AppendPriceHistory appends entry and makes it the item's current price
// in one transaction.
func (s *ItemService) AppendPriceHistory(ctx context.Context, id string, entry pricetrack.PriceHistoryEntry) (*pricetrack.Item, error) {
	if entry.Price < 0 {
		return nil, pricetrack.Errorf(pricetrack.EINVALID, "price must not be negative")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	item, err := findItemByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if last, ok := item.LastPrice(); ok && entry.RecordedAt.Before(last.RecordedAt) {
		return nil, pricetrack.Errorf(pricetrack.EINVALID, "price history entry is older than the last recorded entry")
	}

	if err := insertHistory(ctx, tx, id, entry); err != nil {
		return nil, err
	}

	item.Price = entry.Price
	item.Currency = entry.Currency
	item.UpdatedAt = time.Now().UTC()
	item.PriceHistory = append(item.PriceHistory, pricetrack.PriceHistoryEntry{
		Price:      entry.Price,
		Currency:   entry.Currency,
		RecordedAt: entry.RecordedAt.UTC(),
	})

	_, err = tx.ExecContext(ctx, `
		UPDATE items SET price = ?, currency = ?, updated_at = ? WHERE id = ?
	`, item.Price, item.Currency, formatTime(item.UpdatedAt), id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem permanently removes an item and its price history.
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pricetrack.Errorf(pricetrack.ENOTFOUND, "item not found")
	}

	return nil
}

func findItemByID(ctx context.Context, q queryer, id string) (*pricetrack.Item, error) {
	row := q.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pricetrack.Errorf(pricetrack.ENOTFOUND, "item not found")
	}
	if err != nil {
		return nil, err
	}

	if item.PriceHistory, err = findHistory(ctx, q, id); err != nil {
		return nil, err
	}
	return item, nil
}

func scanItem(s scanner) (*pricetrack.Item, error) {
	var item pricetrack.Item
	var images, colors, sizes, createdAt, updatedAt string

	if err := s.Scan(&item.ID, &item.Title, &item.Brand, &item.Price, &item.Currency, &item.URL,
		&images, &item.Category, &item.Subcategory, &item.InStock, &colors, &sizes,
		&item.SelectedColor, &item.SelectedSize, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if item.Images, err = decodeStrings(images, "images"); err != nil {
		return nil, err
	}
	if item.Colors, err = decodeStrings(colors, "colors"); err != nil {
		return nil, err
	}
	if item.Sizes, err = decodeStrings(sizes, "sizes"); err != nil {
		return nil, err
	}
	if item.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &item, nil
}

func findHistory(ctx context.Context, q queryer, itemID string) ([]pricetrack.PriceHistoryEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT price, currency, recorded_at
		FROM price_history
		WHERE item_id = ?
		ORDER BY id
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []pricetrack.PriceHistoryEntry{}
	for rows.Next() {
		var entry pricetrack.PriceHistoryEntry
		var recordedAt string
		if err := rows.Scan(&entry.Price, &entry.Currency, &recordedAt); err != nil {
			return nil, err
		}
		if entry.RecordedAt, err = parseRFC3339(recordedAt, "recorded_at"); err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

func insertHistory(ctx context.Context, q queryer, itemID string, entry pricetrack.PriceHistoryEntry) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO price_history (item_id, price, currency, recorded_at)
		VALUES (?, ?, ?, ?)
	`, itemID, entry.Price, entry.Currency, formatTime(entry.RecordedAt))
	return err
}
