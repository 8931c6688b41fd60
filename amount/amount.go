// Package amount converts token balances between fixed-point decimal
// precisions and between human decimal strings and integer minor units.
package amount

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseError reports a malformed human-input amount.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Input, e.Reason)
}

func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ToChainUnits rescales an integer balance from srcDecimals precision to
// dstDecimals precision. Gaining precision multiplies and is exact; losing
// precision floor-divides and discards the sub-unit remainder. The loss is
// the accepted rounding-down policy, not an error.
func ToChainUnits(srcDecimals, dstDecimals uint8, units *big.Int) *big.Int {
	if units == nil {
		return nil
	}
	if dstDecimals >= srcDecimals {
		return new(big.Int).Mul(units, pow10(dstDecimals-srcDecimals))
	}
	return new(big.Int).Div(units, pow10(srcDecimals-dstDecimals))
}

// ParseDecimal parses a human decimal string into integer minor units at
// the given precision. Fractional digits beyond the precision are truncated,
// matching the floor policy of ToChainUnits. Malformed or negative input
// fails with a *ParseError.
func ParseDecimal(text string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return nil, &ParseError{Input: text, Reason: "not a decimal number"}
	}
	if d.IsNegative() {
		return nil, &ParseError{Input: text, Reason: "negative amount"}
	}
	return d.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// FormatUnits renders integer minor units as an exact decimal string at the
// given precision. Never uses scientific notation.
func FormatUnits(units *big.Int, decimals uint8) string {
	if units == nil {
		return "0"
	}
	return decimal.NewFromBigInt(units, -int32(decimals)).String()
}
