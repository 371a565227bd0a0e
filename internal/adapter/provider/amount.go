package provider

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitExponent is the number of decimal places in the currencies we
// settle (NGN kobo, USD cents).
const minorUnitExponent = 2

var minorPerMajor = decimal.New(1, minorUnitExponent)

// toMajor renders minor units as a fixed-point major-unit string ("1250.50").
func toMajor(minor int64) string {
	return decimal.New(minor, -minorUnitExponent).StringFixed(minorUnitExponent)
}

// fromMajor parses a major-unit amount into minor units. Amounts with more
// precision than the currency allows are rejected rather than rounded.
func fromMajor(major string) (int64, error) {
	d, err := decimal.NewFromString(major)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", major, err)
	}
	minor := d.Mul(minorPerMajor)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has sub-minor precision", major)
	}
	return minor.IntPart(), nil
}
