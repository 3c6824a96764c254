package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nordkart/kvitt/internal/ledger"
)

// GetReceipt returns a receipt with its items in insertion order.
// Fails with NOT_FOUND if the receipt does not exist.
func (s *Store) GetReceipt(ctx context.Context, id int64) (ledger.Receipt, error) {
	var r ledger.Receipt
	err := s.db.QueryRowContext(ctx, `
		SELECT id, store, date FROM Receipt WHERE id = ?
	`, id).Scan(&r.ID, &r.StoreID, &r.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Receipt{}, ledger.NewNotFoundError("receipt", id)
	}
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("get receipt: %w", mapSQLiteError(err))
	}

	items, err := s.itemsForReceipt(ctx, id)
	if err != nil {
		return ledger.Receipt{}, err
	}
	r.Items = items
	return r, nil
}

// GetItem returns a single item.
// Fails with NOT_FOUND if the item does not exist.
func (s *Store) GetItem(ctx context.Context, id int64) (ledger.Item, error) {
	var it ledger.Item
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, quantity, price, unit, receipt FROM Item WHERE id = ?
	`, id).Scan(&it.ID, &it.Name, &it.Quantity, &it.Price, &it.Unit, &it.ReceiptID)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Item{}, ledger.NewNotFoundError("item", id)
	}
	if err != nil {
		return ledger.Item{}, fmt.Errorf("get item: %w", mapSQLiteError(err))
	}
	return it, nil
}

// GetStore returns a single merchant.
// Fails with NOT_FOUND if the store does not exist.
func (s *Store) GetStore(ctx context.Context, id int64) (ledger.Store, error) {
	var st ledger.Store
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, location FROM Store WHERE id = ?
	`, id).Scan(&st.ID, &st.Name, &st.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Store{}, ledger.NewNotFoundError("store", id)
	}
	if err != nil {
		return ledger.Store{}, fmt.Errorf("get store: %w", mapSQLiteError(err))
	}
	return st, nil
}

// ListReceipts returns receipts matching the filter, ordered by
// date ASC, id ASC. Items are not populated; use GetReceipt for them.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListReceipts(ctx context.Context, f ledger.ReceiptFilter) ([]ledger.Receipt, error) {
	query := `SELECT id, store, date FROM Receipt WHERE 1=1`
	var args []any
	if f.StoreID != 0 {
		query += ` AND store = ?`
		args = append(args, f.StoreID)
	}
	if f.DateFrom != "" {
		if err := ledger.ValidateDate(f.DateFrom); err != nil {
			return nil, err
		}
		query += ` AND date >= ?`
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		if err := ledger.ValidateDate(f.DateTo); err != nil {
			return nil, err
		}
		query += ` AND date <= ?`
		args = append(args, f.DateTo)
	}
	query += ` ORDER BY date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", mapSQLiteError(err))
	}
	defer rows.Close()

	var receipts []ledger.Receipt
	for rows.Next() {
		var r ledger.Receipt
		if err := rows.Scan(&r.ID, &r.StoreID, &r.Date); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", mapSQLiteError(err))
	}

	if receipts == nil {
		receipts = []ledger.Receipt{}
	}
	return receipts, nil
}

// ListStores returns all stores ordered by id ASC.
func (s *Store) ListStores(ctx context.Context) ([]ledger.Store, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, location FROM Store ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", mapSQLiteError(err))
	}
	defer rows.Close()

	var stores []ledger.Store
	for rows.Next() {
		var st ledger.Store
		if err := rows.Scan(&st.ID, &st.Name, &st.Location); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stores: %w", mapSQLiteError(err))
	}

	if stores == nil {
		stores = []ledger.Store{}
	}
	return stores, nil
}

// FindReceipt returns the id of a receipt with the given store and date,
// or NOT_FOUND. Used as the duplicate probe before imports.
func (s *Store) FindReceipt(ctx context.Context, storeID int64, date string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM Receipt WHERE store = ? AND date = ? ORDER BY id ASC LIMIT 1
	`, storeID, date).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ledger.NewNotFoundError("receipt", 0)
	}
	if err != nil {
		return 0, fmt.Errorf("find receipt: %w", mapSQLiteError(err))
	}
	return id, nil
}

// ReceiptTotal returns the sum of quantity*price over a receipt's items,
// in minor currency units. A receipt with no items totals 0. Totals across
// mixed currencies are summed blindly; use ReceiptTotals for per-unit sums.
// Fails with NOT_FOUND if the receipt does not exist.
func (s *Store) ReceiptTotal(ctx context.Context, id int64) (int64, error) {
	if err := s.receiptExists(ctx, id); err != nil {
		return 0, err
	}

	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(quantity * price), 0) FROM Item WHERE receipt = ?
	`, id).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("receipt total: %w", mapSQLiteError(err))
	}
	return total, nil
}

// ReceiptTotals returns a receipt's totals grouped by currency unit,
// ordered by unit ASC. A receipt with no items yields an empty slice.
// Fails with NOT_FOUND if the receipt does not exist.
func (s *Store) ReceiptTotals(ctx context.Context, id int64) ([]ledger.UnitTotal, error) {
	if err := s.receiptExists(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT unit, SUM(quantity * price) FROM Item WHERE receipt = ?
		GROUP BY unit ORDER BY unit ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("receipt totals: %w", mapSQLiteError(err))
	}
	defer rows.Close()

	var totals []ledger.UnitTotal
	for rows.Next() {
		var ut ledger.UnitTotal
		if err := rows.Scan(&ut.Unit, &ut.Total); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals = append(totals, ut)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate totals: %w", mapSQLiteError(err))
	}

	if totals == nil {
		totals = []ledger.UnitTotal{}
	}
	return totals, nil
}

// itemsForReceipt returns a receipt's items in insertion order (id ASC).
func (s *Store) itemsForReceipt(ctx context.Context, receiptID int64) ([]ledger.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, quantity, price, unit, receipt FROM Item
		WHERE receipt = ? ORDER BY id ASC
	`, receiptID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", mapSQLiteError(err))
	}
	defer rows.Close()

	var items []ledger.Item
	for rows.Next() {
		var it ledger.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.Price, &it.Unit, &it.ReceiptID); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", mapSQLiteError(err))
	}

	if items == nil {
		items = []ledger.Item{}
	}
	return items, nil
}

func (s *Store) receiptExists(ctx context.Context, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM Receipt WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.NewNotFoundError("receipt", id)
	}
	if err != nil {
		return fmt.Errorf("check receipt: %w", mapSQLiteError(err))
	}
	return nil
}
