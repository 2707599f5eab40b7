package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmoliveira/feira/internal/list"
	"github.com/rmoliveira/feira/internal/model"
	"github.com/rmoliveira/feira/internal/receipt"
	"github.com/rmoliveira/feira/internal/store"
)

// View names the screen the client should show after an action.
type View string

const (
	ViewList     View = "list"
	ViewReceipts View = "receipts"
)

// PaymentMethods are the accepted values for a receipt's payment method.
// Empty is also accepted: the field is optional at the register.
var PaymentMethods = map[string]bool{
	"pix":    true,
	"credit": true,
	"debit":  true,
	"cash":   true,
}

// Input carries the checkout form. Total and Discount arrive as raw strings
// because the form leaves them free-text; parsing failures fall back rather
// than error.
type Input struct {
	Title         string `json:"title"`
	Total         string `json:"total"`
	PaymentMethod string `json:"payment_method"`
	HasDiscount   bool   `json:"has_discount"`
	Discount      string `json:"discount"`
	Market        string `json:"market"`
}

// Coordinator turns the current list's priced items into an immutable
// receipt.
type Coordinator struct {
	lists    *list.Registry
	receipts *receipt.Manager
	now      func() time.Time
}

func NewCoordinator(lists *list.Registry, receipts *receipt.Manager) *Coordinator {
	return &Coordinator{lists: lists, receipts: receipts, now: time.Now}
}

// DefaultTitle is the suggested receipt title for a purchase made now,
// "Compra DD/MM/YYYY".
func DefaultTitle(now time.Time) string {
	return fmt.Sprintf("Compra %02d/%02d/%d", now.Day(), int(now.Month()), now.Year())
}

// parseAmount parses a free-text money field. Empty, malformed, and
// non-positive values yield the fallback.
func parseAmount(raw string, fallback decimal.Decimal) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return fallback
	}
	return d
}

// Confirm records the purchase: it snapshots every priced item on the
// owner's current list into receipt lines, resolves the total (falling back
// to the computed subtotal) and discount (falling back to zero), and writes
// the receipt atomically. On success the client moves to the receipts view.
func (c *Coordinator) Confirm(ownerID string, in Input) (*model.ReceiptWithItems, View, error) {
	m := c.lists.ForOwner(ownerID)
	if m.CurrentList() == nil {
		if err := m.LoadOrCreate(); err != nil {
			return nil, ViewList, err
		}
	}

	if in.PaymentMethod != "" && !PaymentMethods[in.PaymentMethod] {
		return nil, ViewList, fmt.Errorf("unknown payment method %q: %w", in.PaymentMethod, receipt.ErrValidation)
	}

	items := m.ItemsWithPrice()
	if len(items) == 0 {
		return nil, ViewList, fmt.Errorf("no priced items to check out: %w", receipt.ErrValidation)
	}

	lines := make([]store.ReceiptLine, len(items))
	for i, item := range items {
		lines[i] = store.ReceiptLine{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.Decimal,
			TotalPrice: item.LineTotal(),
		}
	}

	subtotal := m.Subtotal()
	total := parseAmount(in.Total, subtotal)
	discount := decimal.Zero
	if in.HasDiscount {
		discount = parseAmount(in.Discount, decimal.Zero)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultTitle(c.now())
	}

	var listID *int64
	if l := m.CurrentList(); l != nil {
		listID = &l.ID
	}

	r, err := c.receipts.Create(ownerID, listID, title, total, in.PaymentMethod, in.HasDiscount, discount, strings.TrimSpace(in.Market), lines)
	if err != nil {
		return nil, ViewList, err
	}
	return r, ViewReceipts, nil
}
