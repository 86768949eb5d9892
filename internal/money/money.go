// Package money converts between the decimal amounts used at the API
// boundary and the integer minor units used everywhere inside the ledger.
// Binary floating point never touches an amount.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of decimal places in the currency's minor
// unit (2 for cents).
const MinorUnitExponent = 2

var (
	ErrMalformedAmount   = errors.New("amount is not a valid decimal number")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrTooPrecise        = errors.New("amount has more decimal places than the minor unit allows")
	ErrAmountOverflow    = errors.New("amount exceeds the representable range")
)

// ParseAmount converts a decimal string like "100.00" into minor units
// (10000). Amounts must be strictly positive and carry at most
// MinorUnitExponent decimal places.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrMalformedAmount
	}
	if d.Sign() <= 0 {
		return 0, ErrNonPositiveAmount
	}
	if d.Exponent() < -MinorUnitExponent {
		// NewFromString keeps trailing zeros in the exponent, so "1.50"
		// parses with exponent -2 and "1.500" with -3; normalize first.
		if d.Equal(d.Truncate(MinorUnitExponent)) {
			d = d.Truncate(MinorUnitExponent)
		} else {
			return 0, ErrTooPrecise
		}
	}

	shifted := d.Shift(MinorUnitExponent)
	if !shifted.IsInteger() {
		return 0, ErrTooPrecise
	}
	if !shifted.BigInt().IsInt64() {
		return 0, ErrAmountOverflow
	}
	return shifted.IntPart(), nil
}

// FormatAmount renders minor units as a decimal string: 10000 -> "100.00"
func FormatAmount(minorUnits int64) string {
	return decimal.New(minorUnits, -MinorUnitExponent).StringFixed(MinorUnitExponent)
}
