package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nordkart/kvitt/internal/ledger"
)

// createTestStore creates a fresh on-disk store in a temp dir.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedStore inserts a merchant row and returns its id.
func seedStore(t *testing.T, s *Store, name, location string) int64 {
	t.Helper()
	id, err := s.CreateStore(context.Background(), name, location)
	if err != nil {
		t.Fatalf("CreateStore(%q, %q) failed: %v", name, location, err)
	}
	return id
}

// seedReceipt inserts a receipt with the given items and returns its id.
func seedReceipt(t *testing.T, s *Store, storeID int64, date string, items ...ledger.ItemInput) int64 {
	t.Helper()
	id, err := s.CreateReceipt(context.Background(), storeID, date, items)
	if err != nil {
		t.Fatalf("CreateReceipt failed: %v", err)
	}
	return id
}

func milk(qty, price int64) ledger.ItemInput {
	return ledger.ItemInput{Name: "Milk", Quantity: qty, Price: price, Unit: "NOK"}
}
