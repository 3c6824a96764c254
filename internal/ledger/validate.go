package ledger

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxUnitLen is the maximum length of a currency unit code.
const MaxUnitLen = 3

var titleCaser = cases.Title(language.Und)

// Normalize applies defaults and canonical form to caller input:
// unset quantity becomes 1, the unit is upper-cased, and surrounding
// whitespace is trimmed from the name. Capitalization of the name itself
// is opt-in (see CapitalizeName).
func (in ItemInput) Normalize() ItemInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.ToUpper(strings.TrimSpace(in.Unit))
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	return in
}

// CapitalizeName title-cases an item name ("melk og brød" -> "Melk Og Brød").
// Mirrors the capitalize_item_names setting of the desktop app.
func CapitalizeName(name string) string {
	return titleCaser.String(name)
}

// ValidateItem checks the domain rules for a line item:
// non-empty name, quantity >= 1, price >= 0, well-formed currency unit.
// Inputs should be normalized first.
func ValidateItem(in ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewValidationError("item", "name", "must not be empty")
	}
	if in.Quantity < 1 {
		return NewValidationError("item", "quantity", "must be at least 1")
	}
	if in.Price < 0 {
		return NewValidationError("item", "price", "must not be negative")
	}
	if err := ValidateUnit(in.Unit); err != nil {
		return err
	}
	return nil
}

// ValidateItemAt is ValidateItem with the item's position folded into the
// field name, for batch validation ("items[2].price").
func ValidateItemAt(i int, in ItemInput) error {
	err := ValidateItem(in)
	if err == nil {
		return nil
	}
	var le *Error
	if ok := asLedgerError(err, &le); ok && le.Code == CodeValidation {
		return NewValidationError(le.Entity, itemField(i, le.Field), le.Message)
	}
	return err
}

func itemField(i int, field string) string {
	return "items[" + strconv.Itoa(i) + "]." + field
}

func asLedgerError(err error, target **Error) bool {
	le, ok := err.(*Error)
	if ok {
		*target = le
	}
	return ok
}

// ValidateDate checks that s is a well-formed YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return NewValidationError("receipt", "date", "must be a YYYY-MM-DD date")
	}
	return nil
}

// ValidateStoreName checks the one rule stores have: a non-empty name.
func ValidateStoreName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("store", "name", "must not be empty")
	}
	return nil
}
