package ledger

import "fmt"

// minorUnitScale maps known currency codes to the number of minor units
// per major unit. Unknown codes are still storable; they just render as
// raw minor units.
var minorUnitScale = map[string]int64{
	"NOK": 100,
	"EUR": 100,
}

// UnitScale returns the minor-unit scale for a currency code and whether
// the code is known.
func UnitScale(unit string) (int64, bool) {
	scale, ok := minorUnitScale[unit]
	return scale, ok
}

// ValidateUnit checks that unit is a well-formed currency code:
// 1 to MaxUnitLen uppercase ASCII letters.
func ValidateUnit(unit string) error {
	if unit == "" {
		return NewValidationError("item", "unit", "must not be empty")
	}
	if len(unit) > MaxUnitLen {
		return NewValidationError("item", "unit", fmt.Sprintf("must be at most %d characters", MaxUnitLen))
	}
	for i := 0; i < len(unit); i++ {
		if unit[i] < 'A' || unit[i] > 'Z' {
			return NewValidationError("item", "unit", "must be uppercase ASCII letters")
		}
	}
	return nil
}

// FormatAmount renders an amount of minor units in the given currency.
// Known currencies get a decimal point per their scale ("3.00 NOK");
// unknown codes render the raw integer ("300 XXX").
func FormatAmount(amount int64, unit string) string {
	scale, ok := UnitScale(unit)
	if !ok || scale <= 1 {
		return fmt.Sprintf("%d %s", amount, unit)
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := 0
	for s := scale; s > 1; s /= 10 {
		digits++
	}
	return fmt.Sprintf("%s%d.%0*d %s", sign, amount/scale, digits, amount%scale, unit)
}
