package models

import "strconv"

// Money is an amount in whole currency units. The lounge bills in whole
// rupees, so there is no fractional sub-unit to carry.
type Money int64

// String renders the amount without a currency symbol.
func (m Money) String() string {
	return strconv.FormatInt(int64(m), 10)
}
