package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rmoliveira/feira/internal/model"
)

// ShoppingStore persists lists, their categories, and their items.
type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

// CategorySeed describes one category and its starter items for list
// bootstrap.
type CategorySeed struct {
	Name     string
	IsCustom bool
	Items    []ItemSeed
}

type ItemSeed struct {
	Name     string
	Quantity int
}

// --- List methods ---

func scanList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var active int
	err := scanner.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Month, &l.Year, &active, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.IsActive = active != 0
	return &l, nil
}

const listCols = `id, owner_id, name, month, year, is_active, created_at`

// GetActiveList returns the most recently created active list for the owner,
// or nil when the owner has none.
func (s *ShoppingStore) GetActiveList(ownerID string) (*model.ShoppingList, error) {
	row := s.db.QueryRow(
		`SELECT `+listCols+` FROM shopping_lists WHERE owner_id = ? AND is_active = 1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		ownerID,
	)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active list: %w", err)
	}
	return l, nil
}

func (s *ShoppingStore) GetListByID(id int64, ownerID string) (*model.ShoppingList, error) {
	row := s.db.QueryRow(
		`SELECT `+listCols+` FROM shopping_lists WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *ShoppingStore) ListLists(ownerID string) ([]model.ShoppingList, error) {
	rows, err := s.db.Query(
		`SELECT `+listCols+` FROM shopping_lists WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

// CreateListWithDefaults creates a list, its seed categories, and their
// starter items in a single transaction, deactivating any previously active
// list for the owner. A failure anywhere leaves no orphaned list behind.
func (s *ShoppingStore) CreateListWithDefaults(ownerID, name string, month, year int, seed []CategorySeed) (*model.ShoppingList, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE shopping_lists SET is_active = 0 WHERE owner_id = ? AND is_active = 1`,
		ownerID,
	); err != nil {
		return nil, fmt.Errorf("deactivate lists: %w", err)
	}

	result, err := tx.Exec(
		`INSERT INTO shopping_lists (owner_id, name, month, year, is_active) VALUES (?, ?, ?, ?, 1)`,
		ownerID, name, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	listID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for i, c := range seed {
		res, err := tx.Exec(
			`INSERT INTO categories (list_id, name, is_custom, sort_order) VALUES (?, ?, ?, ?)`,
			listID, c.Name, boolToInt(c.IsCustom), i,
		)
		if err != nil {
			return nil, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		categoryID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		for j, item := range c.Items {
			if _, err := tx.Exec(
				`INSERT INTO shopping_items (category_id, name, quantity, sort_order) VALUES (?, ?, ?, ?)`,
				categoryID, item.Name, item.Quantity, j,
			); err != nil {
				return nil, fmt.Errorf("seed item %q: %w", item.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetListByID(listID, ownerID)
}

func (s *ShoppingStore) RenameList(id int64, ownerID, name string) (*model.ShoppingList, error) {
	_, err := s.db.Exec(
		`UPDATE shopping_lists SET name = ? WHERE id = ? AND owner_id = ?`,
		name, id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("rename list: %w", err)
	}
	return s.GetListByID(id, ownerID)
}

// SetActiveList flips the active flag to the given list in one transaction so
// no two lists can end up active. Returns nil when the list does not exist or
// belongs to another owner.
func (s *ShoppingStore) SetActiveList(ownerID string, listID int64) (*model.ShoppingList, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE shopping_lists SET is_active = 1 WHERE id = ? AND owner_id = ?`,
		listID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("activate list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(
		`UPDATE shopping_lists SET is_active = 0 WHERE owner_id = ? AND id != ?`,
		ownerID, listID,
	); err != nil {
		return nil, fmt.Errorf("deactivate lists: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetListByID(listID, ownerID)
}

// --- Category methods ---

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	var custom int
	err := scanner.Scan(&c.ID, &c.ListID, &c.Name, &custom, &c.SortOrder, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.IsCustom = custom != 0
	return &c, nil
}

const categoryCols = `id, list_id, name, is_custom, sort_order, created_at`

func (s *ShoppingStore) GetCategoryByID(id int64) (*model.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *ShoppingStore) CreateCategory(listID int64, name string, isCustom bool, sortOrder int) (*model.Category, error) {
	result, err := s.db.Exec(
		`INSERT INTO categories (list_id, name, is_custom, sort_order) VALUES (?, ?, ?, ?)`,
		listID, name, boolToInt(isCustom), sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetCategoryByID(id)
}

// RenameCategory renames a category on one of the owner's lists. Returns nil
// when the category does not exist or belongs to another owner.
func (s *ShoppingStore) RenameCategory(id int64, ownerID, name string) (*model.Category, error) {
	result, err := s.db.Exec(
		`UPDATE categories SET name = ? WHERE id = ?`+categoryOwnedBy,
		name, id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetCategoryByID(id)
}

// MaxCategorySortOrder returns the highest sort_order in the list, or -1 when
// the list has no categories.
func (s *ShoppingStore) MaxCategorySortOrder(listID int64) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(sort_order) FROM categories WHERE list_id = ?`, listID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max category sort order: %w", err)
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

// ListCategoriesWithItems returns the list's categories in sort order, each
// with its items in sort order.
func (s *ShoppingStore) ListCategoriesWithItems(listID int64) ([]model.CategoryWithItems, error) {
	rows, err := s.db.Query(
		`SELECT `+categoryCols+` FROM categories WHERE list_id = ? ORDER BY sort_order ASC, id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []model.CategoryWithItems
	index := make(map[int64]int)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		index[c.ID] = len(cats)
		cats = append(cats, model.CategoryWithItems{Category: *c, Items: []model.ShoppingItem{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := s.db.Query(
		`SELECT `+itemCols+` FROM shopping_items
		 WHERE category_id IN (SELECT id FROM categories WHERE list_id = ?)
		 ORDER BY sort_order ASC, id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if i, ok := index[item.CategoryID]; ok {
			cats[i].Items = append(cats[i].Items, *item)
		}
	}
	return cats, itemRows.Err()
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var checked int
	var market sql.NullString

	err := scanner.Scan(
		&item.ID, &item.CategoryID, &item.Name, &item.Quantity, &checked,
		&item.UnitPrice, &market, &item.SortOrder, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.IsChecked = checked != 0
	if market.Valid {
		item.Market = &market.String
	}
	return &item, nil
}

const itemCols = `id, category_id, name, quantity, is_checked, unit_price, market, sort_order, created_at`

// Item and category mutations are scoped to the owner's lists so a guessed ID
// can never touch another owner's rows. A non-owned ID makes the statement a
// no-op rather than an error, the same as a missing row.
const (
	itemOwnedBy = ` AND category_id IN (
		SELECT c.id FROM categories c
		JOIN shopping_lists l ON c.list_id = l.id
		WHERE l.owner_id = ?)`
	categoryOwnedBy = ` AND list_id IN (
		SELECT id FROM shopping_lists WHERE owner_id = ?)`
)

func (s *ShoppingStore) GetItemByID(id int64) (*model.ShoppingItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM shopping_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *ShoppingStore) CreateItem(categoryID int64, name string, quantity, sortOrder int) (*model.ShoppingItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO shopping_items (category_id, name, quantity, sort_order) VALUES (?, ?, ?, ?)`,
		categoryID, name, quantity, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(id)
}

func (s *ShoppingStore) UpdateItemQuantity(id int64, ownerID string, quantity int) error {
	_, err := s.db.Exec(
		`UPDATE shopping_items SET quantity = ? WHERE id = ?`+itemOwnedBy,
		quantity, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	return nil
}

// UpdateItemPrice sets the unit price and market together. A nil market is
// stored as NULL, never as an empty string.
func (s *ShoppingStore) UpdateItemPrice(id int64, ownerID string, price decimal.Decimal, market *string) error {
	var m sql.NullString
	if market != nil {
		m = sql.NullString{String: *market, Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE shopping_items SET unit_price = ?, market = ? WHERE id = ?`+itemOwnedBy,
		price, m, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("update item price: %w", err)
	}
	return nil
}

func (s *ShoppingStore) SetItemChecked(id int64, ownerID string, checked bool) error {
	_, err := s.db.Exec(
		`UPDATE shopping_items SET is_checked = ? WHERE id = ?`+itemOwnedBy,
		boolToInt(checked), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("set item checked: %w", err)
	}
	return nil
}

func (s *ShoppingStore) RenameItem(id int64, ownerID, name string) error {
	_, err := s.db.Exec(
		`UPDATE shopping_items SET name = ? WHERE id = ?`+itemOwnedBy,
		name, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("rename item: %w", err)
	}
	return nil
}

func (s *ShoppingStore) DeleteItem(id int64, ownerID string) error {
	_, err := s.db.Exec(
		`DELETE FROM shopping_items WHERE id = ?`+itemOwnedBy,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
