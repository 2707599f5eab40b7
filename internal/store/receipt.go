package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rmoliveira/feira/internal/model"
)

// ReceiptStore persists receipts and their line-item snapshots.
type ReceiptStore struct {
	db *sql.DB
}

func NewReceiptStore(db *sql.DB) *ReceiptStore {
	return &ReceiptStore{db: db}
}

// ReceiptLine is one line of the snapshot captured at checkout.
type ReceiptLine struct {
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

const receiptCols = `id, owner_id, list_id, title, total_amount, payment_method, has_discount, discount_amount, market, created_at`

func scanReceipt(scanner interface{ Scan(...any) error }) (*model.Receipt, error) {
	var r model.Receipt
	var listID sql.NullInt64
	var discount int
	err := scanner.Scan(
		&r.ID, &r.OwnerID, &listID, &r.Title, &r.TotalAmount,
		&r.PaymentMethod, &discount, &r.DiscountAmount, &r.Market, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.HasDiscount = discount != 0
	if listID.Valid {
		r.ListID = &listID.Int64
	}
	return &r, nil
}

const receiptItemCols = `id, receipt_id, name, quantity, unit_price, total_price, position`

func scanReceiptItem(scanner interface{ Scan(...any) error }) (*model.ReceiptItem, error) {
	var item model.ReceiptItem
	err := scanner.Scan(
		&item.ID, &item.ReceiptID, &item.Name, &item.Quantity,
		&item.UnitPrice, &item.TotalPrice, &item.Position,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateWithItems writes the receipt header and its line snapshot in one
// transaction; a partial receipt is never observable.
func (s *ReceiptStore) CreateWithItems(ownerID string, listID *int64, title string, total decimal.Decimal, paymentMethod string, hasDiscount bool, discount decimal.Decimal, market string, lines []ReceiptLine) (*model.ReceiptWithItems, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var lid sql.NullInt64
	if listID != nil {
		lid = sql.NullInt64{Int64: *listID, Valid: true}
	}
	discountFlag := 0
	if hasDiscount {
		discountFlag = 1
	}

	result, err := tx.Exec(
		`INSERT INTO receipts (owner_id, list_id, title, total_amount, payment_method, has_discount, discount_amount, market)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ownerID, lid, title, total, paymentMethod, discountFlag, discount, market,
	)
	if err != nil {
		return nil, fmt.Errorf("insert receipt: %w", err)
	}
	receiptID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for i, line := range lines {
		if _, err := tx.Exec(
			`INSERT INTO receipt_items (receipt_id, name, quantity, unit_price, total_price, position)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			receiptID, line.Name, line.Quantity, line.UnitPrice, line.TotalPrice, i,
		); err != nil {
			return nil, fmt.Errorf("insert receipt item %q: %w", line.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetByID(receiptID, ownerID)
}

func (s *ReceiptStore) GetByID(id int64, ownerID string) (*model.ReceiptWithItems, error) {
	row := s.db.QueryRow(
		`SELECT `+receiptCols+` FROM receipts WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	r, err := scanReceipt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}

	items, err := s.listItems(id)
	if err != nil {
		return nil, err
	}
	return &model.ReceiptWithItems{Receipt: *r, Items: items}, nil
}

// ListByOwner returns all receipts with their line items, newest first.
func (s *ReceiptStore) ListByOwner(ownerID string) ([]model.ReceiptWithItems, error) {
	rows, err := s.db.Query(
		`SELECT `+receiptCols+` FROM receipts WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []model.ReceiptWithItems
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, model.ReceiptWithItems{Receipt: *r, Items: []model.ReceiptItem{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range receipts {
		items, err := s.listItems(receipts[i].ID)
		if err != nil {
			return nil, err
		}
		receipts[i].Items = items
	}
	return receipts, nil
}

func (s *ReceiptStore) listItems(receiptID int64) ([]model.ReceiptItem, error) {
	rows, err := s.db.Query(
		`SELECT `+receiptItemCols+` FROM receipt_items WHERE receipt_id = ? ORDER BY position ASC, id ASC`,
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("list receipt items: %w", err)
	}
	defer rows.Close()

	items := []model.ReceiptItem{}
	for rows.Next() {
		item, err := scanReceiptItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Delete removes the receipt; line items go with it via the cascade. Returns
// the number of receipts removed (0 when not found or not the owner's).
func (s *ReceiptStore) Delete(id int64, ownerID string) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM receipts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete receipt: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
