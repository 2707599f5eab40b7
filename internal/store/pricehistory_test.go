package store

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rmoliveira/feira/internal/database"
)

func setupPriceHistoryStore(t *testing.T) *PriceHistoryStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPriceHistoryStore(db)
}

func TestAppendAndListByItemName(t *testing.T) {
	s := setupPriceHistoryStore(t)

	market := "Atacadão"
	if err := s.Append(testOwner, "Leite", decimal.RequireFromString("4.50"), &market); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(testOwner, "Leite", decimal.RequireFromString("4.79"), nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(testOwner, "Pão", decimal.RequireFromString("0.80"), nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := s.ListByItemName(testOwner, "Leite")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if !records[0].UnitPrice.Equal(decimal.RequireFromString("4.79")) {
		t.Errorf("records[0].UnitPrice = %s", records[0].UnitPrice)
	}
	if records[0].Market != nil {
		t.Errorf("records[0].Market = %v, want nil", records[0].Market)
	}
	if records[1].Market == nil || *records[1].Market != market {
		t.Errorf("records[1].Market = %v", records[1].Market)
	}
}

func TestListScopedByOwner(t *testing.T) {
	s := setupPriceHistoryStore(t)

	if err := s.Append(testOwner, "Leite", decimal.RequireFromString("4.50"), nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := s.ListByItemName("f47ac10b-58cc-4372-a567-0e02b2c3d479", "Leite")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records for another owner, got %d", len(records))
	}
}

func TestHistorySurvivesRename(t *testing.T) {
	s := setupPriceHistoryStore(t)

	if err := s.Append(testOwner, "Leite", decimal.RequireFromString("4.50"), nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	// History is keyed by the name at recording time; the old entries stay
	// under the old name.
	records, err := s.ListByItemName(testOwner, "Leite integral")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records under the new name, got %d", len(records))
	}
}
