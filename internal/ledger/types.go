package ledger

// Store is a merchant location receipts are issued from.
// Identity beyond the row id is the (Name, Location) pair.
type Store struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Receipt is a single purchase event tied to a store and a date.
// Items are ordered by insertion. A receipt with zero items is valid.
type Receipt struct {
	ID      int64  `json:"id"`
	StoreID int64  `json:"store_id"`
	Date    string `json:"date"`
	Items   []Item `json:"items"`
}

// Item is one purchased line within a receipt.
type Item struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Price     int64  `json:"price"`
	Unit      string `json:"unit"`
	ReceiptID int64  `json:"receipt_id"`
}

// ItemInput is the caller-supplied form of an item, before defaults and
// normalization are applied. Quantity zero means "unset" and defaults to 1.
type ItemInput struct {
	Name     string `json:"name" yaml:"name"`
	Quantity int64  `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Price    int64  `json:"price" yaml:"price"`
	Unit     string `json:"unit" yaml:"unit"`
}

// ItemPatch describes a partial update to an item.
// Nil fields are left unchanged; the merged result is re-validated before
// anything is written.
type ItemPatch struct {
	Name     *string
	Quantity *int64
	Price    *int64
	Unit     *string
}

// IsZero reports whether the patch changes nothing.
func (p ItemPatch) IsZero() bool {
	return p.Name == nil && p.Quantity == nil && p.Price == nil && p.Unit == nil
}

// Apply returns a copy of item with the patch fields merged in.
func (p ItemPatch) Apply(item Item) Item {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	return item
}

// ReceiptFilter narrows ListReceipts. Zero values mean "no constraint".
type ReceiptFilter struct {
	StoreID  int64  // 0 = any store
	DateFrom string // inclusive, "" = open
	DateTo   string // inclusive, "" = open
}

// UnitTotal is the sum of quantity*price for one currency unit of a receipt.
type UnitTotal struct {
	Unit  string `json:"unit"`
	Total int64  `json:"total"`
}

// ImportReceipt is one receipt in an import batch. The store is addressed
// by (name, location) and created on demand.
type ImportReceipt struct {
	Store    string      `yaml:"store"`
	Location string      `yaml:"location,omitempty"`
	Date     string      `yaml:"date"`
	Items    []ItemInput `yaml:"items"`
}

// ImportBatch is a set of receipts imported together. Token identifies the
// batch in the import history; use NewBatchToken to create one.
type ImportBatch struct {
	Token    string          `yaml:"-"`
	Source   string          `yaml:"-"`
	Force    bool            `yaml:"-"`
	Receipts []ImportReceipt `yaml:"receipts"`
}

// ImportResult reports what an import batch did.
type ImportResult struct {
	Token      string  `json:"token"`
	Imported   []int64 `json:"imported"`
	Skipped    int     `json:"skipped"`
	StoresMade int     `json:"stores_created"`
}
