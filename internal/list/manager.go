package list

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmoliveira/feira/internal/catalog"
	"github.com/rmoliveira/feira/internal/model"
	"github.com/rmoliveira/feira/internal/store"
)

// Sentinel errors callers can classify with errors.Is. Anything else coming
// out of a Manager method is a wrapped store failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
)

// newItemSortOrder places user-added items after the seeded ones.
const newItemSortOrder = 999

// Store is the gateway to the persistent data store for lists, categories,
// and items.
type Store interface {
	GetActiveList(ownerID string) (*model.ShoppingList, error)
	GetListByID(id int64, ownerID string) (*model.ShoppingList, error)
	ListLists(ownerID string) ([]model.ShoppingList, error)
	CreateListWithDefaults(ownerID, name string, month, year int, seed []store.CategorySeed) (*model.ShoppingList, error)
	RenameList(id int64, ownerID, name string) (*model.ShoppingList, error)
	SetActiveList(ownerID string, listID int64) (*model.ShoppingList, error)
	ListCategoriesWithItems(listID int64) ([]model.CategoryWithItems, error)
	CreateCategory(listID int64, name string, isCustom bool, sortOrder int) (*model.Category, error)
	RenameCategory(id int64, ownerID, name string) (*model.Category, error)
	MaxCategorySortOrder(listID int64) (int, error)
	CreateItem(categoryID int64, name string, quantity, sortOrder int) (*model.ShoppingItem, error)
	UpdateItemQuantity(id int64, ownerID string, quantity int) error
	UpdateItemPrice(id int64, ownerID string, price decimal.Decimal, market *string) error
	SetItemChecked(id int64, ownerID string, checked bool) error
	RenameItem(id int64, ownerID, name string) error
	DeleteItem(id int64, ownerID string) error
}

// History is the gateway to the append-only price log.
type History interface {
	Append(ownerID, itemName string, price decimal.Decimal, market *string) error
}

// Manager owns one owner's current list state in memory and mediates every
// mutation against the store. All writes are two-phase: persist first, apply
// to the in-memory view only on success.
type Manager struct {
	mu      sync.Mutex
	ownerID string
	store   Store
	history History
	logger  *slog.Logger
	now     func() time.Time

	current    *model.ShoppingList
	categories []model.CategoryWithItems
}

func NewManager(ownerID string, st Store, history History, logger *slog.Logger) *Manager {
	return &Manager{
		ownerID: ownerID,
		store:   st,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

var monthNames = []string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name for month 1..12, or "" otherwise.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

func defaultSeed(withStarterItems bool) []store.CategorySeed {
	seed := make([]store.CategorySeed, 0, len(catalog.DefaultCategories))
	for _, name := range catalog.DefaultCategories {
		c := store.CategorySeed{
			Name:     name,
			IsCustom: name == catalog.ExtraCategory,
		}
		if withStarterItems {
			for _, item := range catalog.StarterItems[name] {
				c.Items = append(c.Items, store.ItemSeed{Name: item.Name, Quantity: item.Quantity})
			}
		}
		seed = append(seed, c)
	}
	return seed
}

// LoadOrCreate fetches the owner's active list, creating a seeded monthly
// list when none exists. On failure the in-memory state stays empty.
func (m *Manager) LoadOrCreate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.store.GetActiveList(m.ownerID)
	if err != nil {
		return fmt.Errorf("fetch active list: %w", err)
	}

	if l == nil {
		now := m.now()
		month := int(now.Month())
		year := now.Year()
		name := fmt.Sprintf("Lista de %s %d", MonthName(month), year)
		l, err = m.store.CreateListWithDefaults(m.ownerID, name, month, year, defaultSeed(true))
		if err != nil {
			return fmt.Errorf("bootstrap list: %w", err)
		}
	}

	return m.loadLocked(l)
}

// loadLocked refreshes the in-memory view for the given list. Caller holds mu.
func (m *Manager) loadLocked(l *model.ShoppingList) error {
	cats, err := m.store.ListCategoriesWithItems(l.ID)
	if err != nil {
		return fmt.Errorf("fetch categories: %w", err)
	}
	m.current = l
	m.categories = cats
	return nil
}

// ensureLoadedLocked lazily bootstraps state for managers created on first
// touch by a mutation rather than a page load. Caller holds mu.
func (m *Manager) ensureLoadedLocked() error {
	if m.current != nil {
		return nil
	}
	l, err := m.store.GetActiveList(m.ownerID)
	if err != nil {
		return fmt.Errorf("fetch active list: %w", err)
	}
	if l == nil {
		return ErrNotFound
	}
	return m.loadLocked(l)
}

// Snapshot returns a copy of the current list and its categories for
// rendering. The list pointer is nil when nothing is loaded.
func (m *Manager) Snapshot() (*model.ShoppingList, []model.CategoryWithItems) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, nil
	}
	l := *m.current
	cats := make([]model.CategoryWithItems, len(m.categories))
	for i, c := range m.categories {
		cats[i] = model.CategoryWithItems{Category: c.Category, Items: append([]model.ShoppingItem(nil), c.Items...)}
	}
	return &l, cats
}

func (m *Manager) findItemLocked(itemID int64) (catIdx, itemIdx int, ok bool) {
	for i := range m.categories {
		for j := range m.categories[i].Items {
			if m.categories[i].Items[j].ID == itemID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// SetItemQuantity writes a new quantity through to the store and reflects it
// locally on success. Negative quantities are rejected before any write;
// zero is allowed and does not remove the item. The store write is scoped to
// the owner's rows, so an ID outside them is a no-op.
func (m *Manager) SetItemQuantity(itemID int64, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("quantity must be non-negative: %w", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoadedLocked(); err != nil {
		return err
	}
	if err := m.store.UpdateItemQuantity(itemID, m.ownerID, quantity); err != nil {
		return err
	}
	if i, j, ok := m.findItemLocked(itemID); ok {
		m.categories[i].Items[j].Quantity = quantity
	}
	return nil
}

// SetItemPrice writes the unit price and market through to the store. As a
// side effect it appends a price history record using the item name captured
// from local state before the write; when the item is unknown locally the
// price update is still attempted — scoped to the owner's own rows — and no
// history is written. A history
// failure is logged, never surfaced — the log is best-effort by design.
func (m *Manager) SetItemPrice(itemID int64, price decimal.Decimal, market *string) error {
	if !price.IsPositive() {
		return fmt.Errorf("unit price must be positive: %w", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoadedLocked(); err != nil {
		return err
	}

	var itemName string
	i, j, ok := m.findItemLocked(itemID)
	if ok {
		itemName = m.categories[i].Items[j].Name
	}

	if err := m.store.UpdateItemPrice(itemID, m.ownerID, price, market); err != nil {
		return err
	}

	if itemName != "" {
		if err := m.history.Append(m.ownerID, itemName, price, market); err != nil {
			m.logger.Warn("price history append failed", "item", itemName, "error", err)
		}
	}

	if ok {
		m.categories[i].Items[j].UnitPrice = decimal.NullDecimal{Decimal: price, Valid: true}
		m.categories[i].Items[j].Market = market
	}
	return nil
}

// ToggleItemChecked flips the checked flag. Checking never touches quantity
// or price.
func (m *Manager) ToggleItemChecked(itemID int64) (*model.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoadedLocked(); err != nil {
		return nil, err
	}

	i, j, ok := m.findItemLocked(itemID)
	if !ok {
		return nil, ErrNotFound
	}

	next := !m.categories[i].Items[j].IsChecked
	if err := m.store.SetItemChecked(itemID, m.ownerID, next); err != nil {
		return nil, err
	}
	m.categories[i].Items[j].IsChecked = next
	item := m.categories[i].Items[j]
	return &item, nil
}

// AddItem inserts a new item at the tail of the category and appends it to
// the local view once the store confirms.
func (m *Manager) AddItem(categoryID int64, name string, quantity int) (*model.ShoppingItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must be non-negative: %w", ErrValidation)
	}
	if quantity == 0 {
		quantity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoadedLocked(); err != nil {
		return nil, err
	}

	catIdx := -1
	for i := range m.categories {
		if m.categories[i].ID == categoryID {
			catIdx = i
			break
		}
	}
	if catIdx < 0 {
		return nil, ErrNotFound
	}

	item, err := m.store.CreateItem(categoryID, name, quantity, newItemSortOrder)
	if err != nil {
		return nil, err
	}
	m.categories[catIdx].Items = append(m.categories[catIdx].Items, *item)
	return item, nil
}

// AddItemAuto inserts a new item into the category matched by name, falling
// back to the Extra bucket when nothing matches.
func (m *Manager) AddItemAuto(name string, quantity int) (*model.ShoppingItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}

	m.mu.Lock()
	if err := m.ensureLoadedLocked(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	categoryName := catalog.Categorize(name)
	var categoryID int64
	var found bool
	for i := range m.categories {
		if m.categories[i].Name == categoryName {
			categoryID = m.categories[i].ID
			found = true
			break
		}
	}
	if !found {
		for i := range m.categories {
			if m.categories[i].Name == catalog.ExtraCategory {
				categoryID = m.categories[i].ID
				found = true
				break
			}
		}
	}
	m.mu.Unlock()

	if !found {
		return nil, ErrNotFound
	}
	return m.AddItem(categoryID, name, quantity)
}

// DeleteItem removes the item; the local view keeps it until the store
// confirms the deletion.
func (m *Manager) DeleteItem(itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoadedLocked(); err != nil {
		return err
	}

	i, j, ok := m.findItemLocked(itemID)
	if !ok {
		return ErrNotFound
	}
	if err := m.store.DeleteItem(itemID, m.ownerID); err != nil {
		return err
	}
	m.categories[i].Items = append(m.categories[i].Items[:j], m.categories[i].Items[j+1:]...)
	return nil
}

func (m *Manager) RenameItem(itemID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoadedLocked(); err != nil {
		return err
	}

	i, j, ok := m.findItemLocked(itemID)
	if !ok {
		return ErrNotFound
	}
	if err := m.store.RenameItem(itemID, m.ownerID, name); err != nil {
		return err
	}
	m.categories[i].Items[j].Name = name
	return nil
}

// AddCategory appends a custom category to the current list.
func (m *Manager) AddCategory(name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoadedLocked(); err != nil {
		return nil, err
	}

	max, err := m.store.MaxCategorySortOrder(m.current.ID)
	if err != nil {
		return nil, err
	}
	cat, err := m.store.CreateCategory(m.current.ID, name, true, max+1)
	if err != nil {
		return nil, err
	}
	m.categories = append(m.categories, model.CategoryWithItems{Category: *cat, Items: []model.ShoppingItem{}})
	return cat, nil
}

func (m *Manager) RenameCategory(categoryID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoadedLocked(); err != nil {
		return err
	}

	catIdx := -1
	for i := range m.categories {
		if m.categories[i].ID == categoryID {
			catIdx = i
			break
		}
	}
	if catIdx < 0 {
		return ErrNotFound
	}
	if _, err := m.store.RenameCategory(categoryID, m.ownerID, name); err != nil {
		return err
	}
	m.categories[catIdx].Name = name
	return nil
}

// RenameList renames the current list.
func (m *Manager) RenameList(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoadedLocked(); err != nil {
		return err
	}

	l, err := m.store.RenameList(m.current.ID, m.ownerID, name)
	if err != nil {
		return err
	}
	if l != nil {
		m.current = l
	}
	return nil
}

// CreateCustomList creates a new, explicitly named active list with the
// default category set but no starter items, and switches to it. The
// previously active list is deactivated in the same transaction.
func (m *Manager) CreateCustomList(name string) (*model.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	l, err := m.store.CreateListWithDefaults(m.ownerID, name, int(now.Month()), now.Year(), defaultSeed(false))
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	if err := m.loadLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

// SwitchList makes the given list the owner's active one — a single
// transaction in the store, so two lists can never both be active — and
// loads its categories and items.
func (m *Manager) SwitchList(listID int64) (*model.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.store.SetActiveList(m.ownerID, listID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}
	if err := m.loadLocked(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Lists returns every list the owner has, newest first.
func (m *Manager) Lists() ([]model.ShoppingList, error) {
	return m.store.ListLists(m.ownerID)
}

// Subtotal sums quantity x unit price over the items that have a price.
// Items without one contribute zero.
func (m *Manager) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, c := range m.categories {
		for _, item := range c.Items {
			if item.UnitPrice.Valid {
				total = total.Add(item.LineTotal())
			}
		}
	}
	return total
}

// ItemsWithPrice returns the items carrying a present, strictly positive
// unit price, in display order.
func (m *Manager) ItemsWithPrice() []model.ShoppingItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []model.ShoppingItem
	for _, c := range m.categories {
		for _, item := range c.Items {
			if item.HasPrice() {
				items = append(items, item)
			}
		}
	}
	return items
}

// CurrentList returns the loaded list, or nil.
func (m *Manager) CurrentList() *model.ShoppingList {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	l := *m.current
	return &l
}
