package ledger

import "github.com/google/uuid"

// NewBatchToken returns a time-sortable UUIDv7 string identifying an
// import batch. UUIDv7 embeds a timestamp in the most significant bits,
// so batch tokens sort by creation time in the import history.
//
// Panics if UUID generation fails (should never happen in practice).
func NewBatchToken() string {
	return uuid.Must(uuid.NewV7()).String()
}
