// Package store provides SQLite-backed durable storage for the receipt
// ledger: stores, receipts, line items, and the import history.
//
// Layout:
//   - Store: merchant locations, unique on (name, location)
//   - Receipt: one purchase event, FK to Store
//   - Item: one purchased line, FK to Receipt with ON DELETE CASCADE
//   - import_batch: one row per batch import, keyed by UUIDv7 token
//
// # Transaction discipline
//
// Every write operation runs in a single transaction. Referenced rows are
// checked for existence inside that transaction, so a write never observes
// a parent that a concurrent delete has removed: with the single writer
// connection below, a concurrent DeleteReceipt/AddItem pair on the same
// receipt serializes and the loser fails with UNKNOWN_REFERENCE. Any error
// on any statement rolls the whole transaction back; partial receipts are
// never visible.
//
// # Query determinism
//
// Items are returned in insertion order (id ASC). Receipt listings order
// by date ASC, id ASC. Per-unit totals order by unit ASC.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//   - single writer connection (SetMaxOpenConns(1)) to avoid SQLITE_BUSY
//
// Busy/locked errors surface as ledger.CodeStorageUnavailable; callers may
// retry with backoff.
package store
