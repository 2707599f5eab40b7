package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingList is one owner's list for a given month. At most one list per
// owner is active at a time; switching reassigns the flag atomically.
type ShoppingList struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	Name      string    `json:"name"`
	IsCustom  bool      `json:"is_custom"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// ShoppingItem belongs to exactly one category. UnitPrice and Market are set
// together: an item either has a priced observation from a market or neither.
type ShoppingItem struct {
	ID         int64               `json:"id"`
	CategoryID int64               `json:"category_id"`
	Name       string              `json:"name"`
	Quantity   int                 `json:"quantity"`
	IsChecked  bool                `json:"is_checked"`
	UnitPrice  decimal.NullDecimal `json:"unit_price"`
	Market     *string             `json:"market"`
	SortOrder  int                 `json:"sort_order"`
	CreatedAt  time.Time           `json:"created_at"`
}

// HasPrice reports whether the item carries a present, strictly positive
// unit price.
func (i ShoppingItem) HasPrice() bool {
	return i.UnitPrice.Valid && i.UnitPrice.Decimal.IsPositive()
}

// LineTotal returns quantity x unit price, or zero when no price is set.
func (i ShoppingItem) LineTotal() decimal.Decimal {
	if !i.UnitPrice.Valid {
		return decimal.Zero
	}
	return i.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CategoryWithItems is a category plus its items in sort order.
type CategoryWithItems struct {
	Category
	Items []ShoppingItem `json:"items"`
}
