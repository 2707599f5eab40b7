package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is one observation in the append-only price log. It is keyed by
// the item name as free text, not by item id, so history survives renames and
// deletions of the item that produced it.
type PriceRecord struct {
	ID        int64           `json:"id"`
	OwnerID   string          `json:"owner_id"`
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Market    *string         `json:"market"`
	CreatedAt time.Time       `json:"created_at"`
}
