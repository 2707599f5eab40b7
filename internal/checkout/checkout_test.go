package checkout

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmoliveira/feira/internal/database"
	"github.com/rmoliveira/feira/internal/list"
	"github.com/rmoliveira/feira/internal/receipt"
	"github.com/rmoliveira/feira/internal/store"
)

const testOwner = "1b4e28ba-2fa1-11d2-883f-b9a761bde3fb"

var testNow = time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)

func setupCheckout(t *testing.T) (*Coordinator, *list.Manager) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.DiscardHandler)
	registry := list.NewRegistry(store.NewShoppingStore(db), store.NewPriceHistoryStore(db), logger)
	receipts := receipt.NewManager(store.NewReceiptStore(db))

	c := NewCoordinator(registry, receipts)
	c.now = func() time.Time { return testNow }

	m := registry.ForOwner(testOwner)
	if err := m.LoadOrCreate(); err != nil {
		t.Fatalf("load list: %v", err)
	}
	return c, m
}

// priceTwoItems puts 2 x 3.50 and 1 x 4.00 on the list, subtotal 11.00.
func priceTwoItems(t *testing.T, m *list.Manager) {
	t.Helper()
	_, cats := m.Snapshot()
	var milkID, breadID int64
	for _, c := range cats {
		for _, item := range c.Items {
			switch item.Name {
			case "Leite":
				milkID = item.ID
			case "Pão":
				breadID = item.ID
			}
		}
	}
	if err := m.SetItemQuantity(milkID, 2); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if err := m.SetItemPrice(milkID, decimal.RequireFromString("3.50"), nil); err != nil {
		t.Fatalf("price milk: %v", err)
	}
	if err := m.SetItemPrice(breadID, decimal.RequireFromString("4.00"), nil); err != nil {
		t.Fatalf("price bread: %v", err)
	}
}

func TestDefaultTitle(t *testing.T) {
	if got := DefaultTitle(testNow); got != "Compra 07/03/2026" {
		t.Errorf("DefaultTitle = %q, want %q", got, "Compra 07/03/2026")
	}
}

func TestConfirmSnapshotsPricedItems(t *testing.T) {
	c, m := setupCheckout(t)
	priceTwoItems(t, m)

	r, view, err := c.Confirm(testOwner, Input{PaymentMethod: "pix", Market: "Mercado Central"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if view != ViewReceipts {
		t.Errorf("view = %q, want %q", view, ViewReceipts)
	}
	if r.Title != "Compra 07/03/2026" {
		t.Errorf("title = %q, want default", r.Title)
	}
	if !r.TotalAmount.Equal(decimal.RequireFromString("11.00")) {
		t.Errorf("total = %s, want subtotal 11.00", r.TotalAmount)
	}
	if r.PaymentMethod != "pix" || r.Market != "Mercado Central" {
		t.Errorf("header = %q/%q", r.PaymentMethod, r.Market)
	}
	if len(r.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(r.Items))
	}
	milk := r.Items[0]
	if milk.Name != "Leite" || milk.Quantity != 2 || !milk.TotalPrice.Equal(decimal.RequireFromString("7.00")) {
		t.Errorf("line 0 = %q qty=%d total=%s", milk.Name, milk.Quantity, milk.TotalPrice)
	}
	if r.ListID == nil {
		t.Error("receipt should reference the list it came from")
	}
}

func TestConfirmTotalOverrideMayDiverge(t *testing.T) {
	c, m := setupCheckout(t)
	priceTwoItems(t, m)

	r, _, err := c.Confirm(testOwner, Input{Total: "20.00"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !r.TotalAmount.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("total = %s, want the caller's 20.00", r.TotalAmount)
	}

	sum := decimal.Zero
	for _, line := range r.Items {
		sum = sum.Add(line.TotalPrice)
	}
	if !sum.Equal(decimal.RequireFromString("11.00")) {
		t.Errorf("line sum = %s, want untouched 11.00", sum)
	}
}

func TestConfirmTotalFallbacks(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "0", "-3"} {
		t.Run("total="+raw, func(t *testing.T) {
			c, m := setupCheckout(t)
			priceTwoItems(t, m)
			r, _, err := c.Confirm(testOwner, Input{Total: raw})
			if err != nil {
				t.Fatalf("confirm: %v", err)
			}
			if !r.TotalAmount.Equal(decimal.RequireFromString("11.00")) {
				t.Errorf("total = %s, want subtotal fallback", r.TotalAmount)
			}
		})
	}
}

func TestConfirmDiscountHandling(t *testing.T) {
	c, m := setupCheckout(t)
	priceTwoItems(t, m)

	r, _, err := c.Confirm(testOwner, Input{HasDiscount: true, Discount: "not a number"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !r.HasDiscount {
		t.Error("expected HasDiscount to persist")
	}
	if !r.DiscountAmount.IsZero() {
		t.Errorf("discount = %s, want zero fallback", r.DiscountAmount)
	}

	r, _, err = c.Confirm(testOwner, Input{Discount: "5.00"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if r.HasDiscount || !r.DiscountAmount.IsZero() {
		t.Error("discount must be ignored when the flag is off")
	}
}

func TestConfirmPaymentMethods(t *testing.T) {
	c, m := setupCheckout(t)
	priceTwoItems(t, m)

	for _, method := range []string{"pix", "credit", "debit", "cash", ""} {
		if _, _, err := c.Confirm(testOwner, Input{PaymentMethod: method}); err != nil {
			t.Errorf("method %q: unexpected error %v", method, err)
		}
	}

	_, _, err := c.Confirm(testOwner, Input{PaymentMethod: "cheque"})
	if !errors.Is(err, receipt.ErrValidation) {
		t.Errorf("unknown method: expected ErrValidation, got %v", err)
	}
}

func TestConfirmRequiresPricedItems(t *testing.T) {
	c, _ := setupCheckout(t)

	_, view, err := c.Confirm(testOwner, Input{})
	if !errors.Is(err, receipt.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if view != ViewList {
		t.Errorf("failed checkout should keep the list view, got %q", view)
	}
}
