// Package ledger defines the domain model for the receipt ledger:
// stores, receipts, and their line items, plus the validation rules and
// error taxonomy shared by the storage and CLI layers.
//
// Conventions:
//   - Dates are calendar dates in "YYYY-MM-DD" form (time.DateOnly).
//   - Prices are integers in minor currency units (øre, cents).
//   - Item.Unit is the currency code of the price (1-3 uppercase ASCII
//     letters, e.g. "NOK", "EUR"), not a unit of measure.
//   - A receipt owns its items: deleting a receipt cascades to them.
//
// All failures cross package boundaries as *Error values carrying a Code;
// use the Is* helpers rather than matching messages.
package ledger
