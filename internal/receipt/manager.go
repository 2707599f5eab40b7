package receipt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rmoliveira/feira/internal/model"
	"github.com/rmoliveira/feira/internal/store"
)

var (
	ErrNotFound   = errors.New("receipt not found")
	ErrValidation = errors.New("invalid input")
)

// Store is the persistence gateway for receipts.
type Store interface {
	CreateWithItems(ownerID string, listID *int64, title string, total decimal.Decimal, paymentMethod string, hasDiscount bool, discount decimal.Decimal, market string, lines []store.ReceiptLine) (*model.ReceiptWithItems, error)
	GetByID(id int64, ownerID string) (*model.ReceiptWithItems, error)
	ListByOwner(ownerID string) ([]model.ReceiptWithItems, error)
	Delete(id int64, ownerID string) (int64, error)
}

// Manager exposes the owner-scoped receipt operations. Receipts are
// immutable once written; the only mutations are create and delete.
type Manager struct {
	store Store
}

func NewManager(st Store) *Manager {
	return &Manager{store: st}
}

// Create persists a receipt header and its lines atomically. The header
// total is stored as given and is allowed to diverge from the sum of the
// lines, since real register totals include rounding and loose items.
func (m *Manager) Create(ownerID string, listID *int64, title string, total decimal.Decimal, paymentMethod string, hasDiscount bool, discount decimal.Decimal, market string, lines []store.ReceiptLine) (*model.ReceiptWithItems, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("total must not be negative: %w", ErrValidation)
	}
	if discount.IsNegative() {
		return nil, fmt.Errorf("discount must not be negative: %w", ErrValidation)
	}

	r, err := m.store.CreateWithItems(ownerID, listID, title, total, paymentMethod, hasDiscount, discount, market, lines)
	if err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}
	return r, nil
}

// Get returns one receipt with its lines in their frozen positions.
func (m *Manager) Get(id int64, ownerID string) (*model.ReceiptWithItems, error) {
	r, err := m.store.GetByID(id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch receipt: %w", err)
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

// List returns the owner's receipts, newest first.
func (m *Manager) List(ownerID string) ([]model.ReceiptWithItems, error) {
	receipts, err := m.store.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}

// Delete removes a receipt and its lines. Deleting someone else's receipt,
// or one that never existed, reports ErrNotFound.
func (m *Manager) Delete(id int64, ownerID string) error {
	n, err := m.store.Delete(id, ownerID)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
