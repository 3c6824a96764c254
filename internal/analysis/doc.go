// Package analysis runs named, user-saved read-only queries against the
// receipt ledger, the headless counterpart of the desktop app's Analysis
// window.
//
// Queries live in a YAML file next to the database. The file is
// structurally validated against an embedded CUE schema before decoding,
// so malformed definitions fail with a position-carrying error instead of
// a zero-valued struct. Only SELECT (and WITH ... SELECT) statements are
// executed; the ledger's write surface stays behind the store package.
package analysis
