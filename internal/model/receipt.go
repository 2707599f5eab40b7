package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is a purchase record generated at checkout. TotalAmount is the
// value the user confirmed (possibly edited by hand) and is never re-derived
// from the line items, so it may legitimately differ from their sum.
type Receipt struct {
	ID             int64           `json:"id"`
	OwnerID        string          `json:"owner_id"`
	ListID         *int64          `json:"list_id"`
	Title          string          `json:"title"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	HasDiscount    bool            `json:"has_discount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Market         string          `json:"market"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReceiptItem is a frozen snapshot of a shopping item at checkout time,
// decoupled from any later edits to the item itself.
type ReceiptItem struct {
	ID         int64           `json:"id"`
	ReceiptID  int64           `json:"receipt_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Position   int             `json:"position"`
}

type ReceiptWithItems struct {
	Receipt
	Items []ReceiptItem `json:"items"`
}
