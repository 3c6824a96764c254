package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nordkart/kvitt/internal/ledger"
)

// CreateStore inserts a merchant and returns its id.
// Fails with VALIDATION if the name is empty or the (name, location) pair
// already exists.
func (s *Store) CreateStore(ctx context.Context, name, location string) (int64, error) {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if err := ledger.ValidateStoreName(name); err != nil {
		return 0, err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("create store: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := findStoreTx(ctx, tx, name, location); err == nil {
		return 0, ledger.NewValidationError("store", "name", "store already exists")
	} else if !ledger.IsNotFound(err) {
		return 0, fmt.Errorf("create store: %w", mapSQLiteError(err))
	}

	id, err := insertStoreTx(ctx, tx, name, location)
	if err != nil {
		return 0, fmt.Errorf("create store: %w", mapSQLiteError(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create store: commit: %w", mapSQLiteError(err))
	}
	return id, nil
}

// GetOrCreateStore returns the id of the store with the given name and
// location, inserting it first if absent. Mirrors the add-receipt flow of
// the desktop app, which reuses a known store row.
func (s *Store) GetOrCreateStore(ctx context.Context, name, location string) (id int64, created bool, err error) {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if err := ledger.ValidateStoreName(name); err != nil {
		return 0, false, err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("get or create store: %w", err)
	}
	defer tx.Rollback()

	id, err = findStoreTx(ctx, tx, name, location)
	switch {
	case err == nil:
		created = false
	case ledger.IsNotFound(err):
		id, err = insertStoreTx(ctx, tx, name, location)
		if err != nil {
			return 0, false, fmt.Errorf("get or create store: %w", mapSQLiteError(err))
		}
		created = true
	default:
		return 0, false, fmt.Errorf("get or create store: %w", mapSQLiteError(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("get or create store: commit: %w", mapSQLiteError(err))
	}
	return id, created, nil
}

// CreateReceipt inserts a receipt and its items in one transaction.
// Validation failures surface before anything is written; a failure on any
// item rolls the whole receipt back. An empty item list is valid.
// Fails with UNKNOWN_REFERENCE if storeID does not exist.
func (s *Store) CreateReceipt(ctx context.Context, storeID int64, date string, items []ledger.ItemInput) (int64, error) {
	if err := ledger.ValidateDate(date); err != nil {
		return 0, err
	}
	prepared := make([]ledger.ItemInput, len(items))
	for i, in := range items {
		in = s.prepare(in)
		if err := ledger.ValidateItemAt(i, in); err != nil {
			return 0, err
		}
		prepared[i] = in
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("create receipt: %w", err)
	}
	defer tx.Rollback()

	if err := storeExistsTx(ctx, tx, storeID); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO Receipt (store, date) VALUES (?, ?)
	`, storeID, date)
	if err != nil {
		return 0, fmt.Errorf("create receipt: %w", mapSQLiteError(err))
	}
	receiptID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create receipt: last insert id: %w", err)
	}

	for i, in := range prepared {
		if _, err := insertItemTx(ctx, tx, receiptID, in); err != nil {
			return 0, fmt.Errorf("create receipt: item %d: %w", i, mapSQLiteError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create receipt: commit: %w", mapSQLiteError(err))
	}
	return receiptID, nil
}

// AddItem appends one item to an existing receipt.
// Fails with UNKNOWN_REFERENCE if the receipt does not exist.
func (s *Store) AddItem(ctx context.Context, receiptID int64, in ledger.ItemInput) (int64, error) {
	in = s.prepare(in)
	if err := ledger.ValidateItem(in); err != nil {
		return 0, err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("add item: %w", err)
	}
	defer tx.Rollback()

	if err := receiptExistsTx(ctx, tx, receiptID); err != nil {
		return 0, err
	}

	id, err := insertItemTx(ctx, tx, receiptID, in)
	if err != nil {
		return 0, fmt.Errorf("add item: %w", mapSQLiteError(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add item: commit: %w", mapSQLiteError(err))
	}
	return id, nil
}

// UpdateItem applies a partial update to an item, re-validating the merged
// result. On any failure the stored row is left unchanged.
// Fails with UNKNOWN_REFERENCE if the item does not exist.
func (s *Store) UpdateItem(ctx context.Context, itemID int64, patch ledger.ItemPatch) error {
	if patch.IsZero() {
		return nil
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	defer tx.Rollback()

	var current ledger.Item
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, quantity, price, unit, receipt FROM Item WHERE id = ?
	`, itemID).Scan(&current.ID, &current.Name, &current.Quantity, &current.Price, &current.Unit, &current.ReceiptID)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.NewReferenceError("item", itemID)
	}
	if err != nil {
		return fmt.Errorf("update item: %w", mapSQLiteError(err))
	}

	merged := patch.Apply(current)
	merged.Name = strings.TrimSpace(merged.Name)
	merged.Unit = strings.ToUpper(strings.TrimSpace(merged.Unit))
	if s.capitalize && patch.Name != nil {
		merged.Name = ledger.CapitalizeName(merged.Name)
	}
	if err := ledger.ValidateItem(ledger.ItemInput{
		Name:     merged.Name,
		Quantity: merged.Quantity,
		Price:    merged.Price,
		Unit:     merged.Unit,
	}); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE Item SET name = ?, quantity = ?, price = ?, unit = ? WHERE id = ?
	`, merged.Name, merged.Quantity, merged.Price, merged.Unit, itemID)
	if err != nil {
		return fmt.Errorf("update item: %w", mapSQLiteError(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update item: commit: %w", mapSQLiteError(err))
	}
	return nil
}

// DeleteItem removes a single item.
// Fails with UNKNOWN_REFERENCE if the item does not exist.
func (s *Store) DeleteItem(ctx context.Context, itemID int64) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM Item WHERE id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", mapSQLiteError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item: rows affected: %w", err)
	}
	if affected == 0 {
		return ledger.NewReferenceError("item", itemID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete item: commit: %w", mapSQLiteError(err))
	}
	return nil
}

// DeleteReceipt removes a receipt and all of its items in one transaction.
// The item delete is explicit rather than relying on the FK cascade, so
// the behavior holds even if foreign_keys is off for a session.
// Fails with UNKNOWN_REFERENCE if the receipt does not exist.
func (s *Store) DeleteReceipt(ctx context.Context, receiptID int64) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM Item WHERE receipt = ?`, receiptID); err != nil {
		return fmt.Errorf("delete receipt: items: %w", mapSQLiteError(err))
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM Receipt WHERE id = ?`, receiptID)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", mapSQLiteError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete receipt: rows affected: %w", err)
	}
	if affected == 0 {
		return ledger.NewReferenceError("receipt", receiptID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete receipt: commit: %w", mapSQLiteError(err))
	}
	return nil
}

// prepare applies normalization and the optional name capitalization to
// caller input.
func (s *Store) prepare(in ledger.ItemInput) ledger.ItemInput {
	in = in.Normalize()
	if s.capitalize {
		in.Name = ledger.CapitalizeName(in.Name)
	}
	return in
}

func insertStoreTx(ctx context.Context, tx *sql.Tx, name, location string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO Store (name, location) VALUES (?, ?)
	`, name, location)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func findStoreTx(ctx context.Context, tx *sql.Tx, name, location string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM Store WHERE name = ? AND location = ?
	`, name, location).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ledger.NewNotFoundError("store", 0)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertItemTx(ctx context.Context, tx *sql.Tx, receiptID int64, in ledger.ItemInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO Item (name, quantity, price, unit, receipt) VALUES (?, ?, ?, ?, ?)
	`, in.Name, in.Quantity, in.Price, in.Unit, receiptID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// storeExistsTx verifies a store row exists inside the current transaction.
func storeExistsTx(ctx context.Context, tx *sql.Tx, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM Store WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.NewReferenceError("store", id)
	}
	if err != nil {
		return fmt.Errorf("check store: %w", mapSQLiteError(err))
	}
	return nil
}

// receiptExistsTx verifies a receipt row exists inside the current
// transaction.
func receiptExistsTx(ctx context.Context, tx *sql.Tx, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM Receipt WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.NewReferenceError("receipt", id)
	}
	if err != nil {
		return fmt.Errorf("check receipt: %w", mapSQLiteError(err))
	}
	return nil
}
