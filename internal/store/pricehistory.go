package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rmoliveira/feira/internal/model"
)

// PriceHistoryStore persists the append-only price log. Records are keyed by
// item name, not item id: history outlives the item it came from.
type PriceHistoryStore struct {
	db *sql.DB
}

func NewPriceHistoryStore(db *sql.DB) *PriceHistoryStore {
	return &PriceHistoryStore{db: db}
}

const priceRecordCols = `id, owner_id, item_name, unit_price, market, created_at`

func scanPriceRecord(scanner interface{ Scan(...any) error }) (*model.PriceRecord, error) {
	var r model.PriceRecord
	var market sql.NullString
	err := scanner.Scan(&r.ID, &r.OwnerID, &r.ItemName, &r.UnitPrice, &market, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if market.Valid {
		r.Market = &market.String
	}
	return &r, nil
}

func (s *PriceHistoryStore) Append(ownerID, itemName string, price decimal.Decimal, market *string) error {
	var m sql.NullString
	if market != nil {
		m = sql.NullString{String: *market, Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO price_history (owner_id, item_name, unit_price, market) VALUES (?, ?, ?, ?)`,
		ownerID, itemName, price, m,
	)
	if err != nil {
		return fmt.Errorf("append price record: %w", err)
	}
	return nil
}

// ListByItemName returns the owner's recorded prices for an item name,
// newest first.
func (s *PriceHistoryStore) ListByItemName(ownerID, itemName string) ([]model.PriceRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+priceRecordCols+` FROM price_history
		 WHERE owner_id = ? AND item_name = ? ORDER BY created_at DESC, id DESC`,
		ownerID, itemName,
	)
	if err != nil {
		return nil, fmt.Errorf("list price records: %w", err)
	}
	defer rows.Close()

	var records []model.PriceRecord
	for rows.Next() {
		r, err := scanPriceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}
