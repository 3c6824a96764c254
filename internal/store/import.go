package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nordkart/kvitt/internal/ledger"
)

// ImportReceipts writes a batch of receipts in a single transaction and
// records the batch in the import history under its token.
//
// Stores are created on demand by (name, location). A receipt whose
// (store, date) pair already exists is skipped unless batch.Force is set;
// skips count toward the result, not toward failure. Any validation error
// aborts the whole batch - nothing from a failed batch persists.
func (s *Store) ImportReceipts(ctx context.Context, batch ledger.ImportBatch) (ledger.ImportResult, error) {
	result := ledger.ImportResult{Token: batch.Token}
	if batch.Token == "" {
		return result, ledger.NewValidationError("import", "token", "must not be empty")
	}

	// Validate the whole batch up front so failures are cheap.
	for ri, rec := range batch.Receipts {
		if err := ledger.ValidateStoreName(rec.Store); err != nil {
			return result, batchField(ri, err)
		}
		if err := ledger.ValidateDate(rec.Date); err != nil {
			return result, batchField(ri, err)
		}
		for ii, in := range rec.Items {
			if err := ledger.ValidateItemAt(ii, s.prepare(in)); err != nil {
				return result, batchField(ri, err)
			}
		}
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return result, fmt.Errorf("import: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range batch.Receipts {
		storeID, err := findStoreTx(ctx, tx, rec.Store, rec.Location)
		if ledger.IsNotFound(err) {
			storeID, err = insertStoreTx(ctx, tx, rec.Store, rec.Location)
			if err != nil {
				return result, fmt.Errorf("import: create store: %w", mapSQLiteError(err))
			}
			result.StoresMade++
		} else if err != nil {
			return result, fmt.Errorf("import: find store: %w", mapSQLiteError(err))
		}

		if !batch.Force {
			dup, err := findReceiptTx(ctx, tx, storeID, rec.Date)
			if err != nil && !ledger.IsNotFound(err) {
				return result, fmt.Errorf("import: duplicate probe: %w", mapSQLiteError(err))
			}
			if err == nil && dup != 0 {
				result.Skipped++
				continue
			}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO Receipt (store, date) VALUES (?, ?)
		`, storeID, rec.Date)
		if err != nil {
			return result, fmt.Errorf("import: create receipt: %w", mapSQLiteError(err))
		}
		receiptID, err := res.LastInsertId()
		if err != nil {
			return result, fmt.Errorf("import: last insert id: %w", err)
		}

		for _, in := range rec.Items {
			if _, err := insertItemTx(ctx, tx, receiptID, s.prepare(in)); err != nil {
				return result, fmt.Errorf("import: insert item: %w", mapSQLiteError(err))
			}
		}
		result.Imported = append(result.Imported, receiptID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_batch (id, source, receipt_count) VALUES (?, ?, ?)
	`, batch.Token, batch.Source, len(result.Imported))
	if err != nil {
		return result, fmt.Errorf("import: record batch: %w", mapSQLiteError(err))
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("import: commit: %w", mapSQLiteError(err))
	}
	return result, nil
}

// ImportBatchRecord is one row of the import history.
type ImportBatchRecord struct {
	Token        string `json:"token"`
	Source       string `json:"source"`
	ReceiptCount int    `json:"receipt_count"`
	ImportedAt   string `json:"imported_at"`
}

// ListImportBatches returns the import history, newest token last.
// UUIDv7 tokens sort by creation time, so id ASC is chronological.
func (s *Store) ListImportBatches(ctx context.Context) ([]ImportBatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, receipt_count, imported_at FROM import_batch
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list import batches: %w", mapSQLiteError(err))
	}
	defer rows.Close()

	var records []ImportBatchRecord
	for rows.Next() {
		var r ImportBatchRecord
		if err := rows.Scan(&r.Token, &r.Source, &r.ReceiptCount, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan import batch: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import batches: %w", mapSQLiteError(err))
	}

	if records == nil {
		records = []ImportBatchRecord{}
	}
	return records, nil
}

func findReceiptTx(ctx context.Context, tx *sql.Tx, storeID int64, date string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM Receipt WHERE store = ? AND date = ? ORDER BY id ASC LIMIT 1
	`, storeID, date).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ledger.NewNotFoundError("receipt", 0)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// batchField prefixes a validation error's field with the receipt index,
// so callers see "receipts[3]: ..." in batch failures.
func batchField(i int, err error) error {
	return fmt.Errorf("receipts[%d]: %w", i, err)
}
