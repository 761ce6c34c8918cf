// Package money provides integer minor-unit (paise) monetary amounts.
//
// All balance arithmetic in the engine happens in paise; floating point is
// never used for money. Decimal strings appear only at the API boundary
// (request parsing and UPI link formatting).
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Paise is a signed amount in the smallest currency unit (1/100 rupee).
type Paise int64

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNoShares      = errors.New("must split among at least one member")
)

// ParseDecimalToPaise converts a decimal string to paise with half-up
// rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) separators. Only strictly
// positive amounts are accepted; signs, malformed input, and zero all return
// ErrInvalidAmount.
//
// Examples:
//
//	ParseDecimalToPaise("12.34")  -> 1234, nil
//	ParseDecimalToPaise("12,34")  -> 1234, nil
//	ParseDecimalToPaise("12.345") -> 1234, nil (rounds down)
//	ParseDecimalToPaise("12.346") -> 1235, nil (rounds up)
func ParseDecimalToPaise(s string) (Paise, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take the first two fractional digits; half-up rounding on the third.
	var fracPaise int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracPaise = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracPaise += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracPaise++
			}
		}
	}
	paise := iv*100 + fracPaise
	if paise <= 0 {
		return 0, ErrInvalidAmount
	}
	return Paise(paise), nil
}

// Rupees renders the amount as a decimal major-unit string ("123.45").
// Formatting is done in integer arithmetic; this is the only representation
// the UPI boundary is allowed to see.
func (p Paise) Rupees() string {
	v := int64(p)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Abs returns the magnitude of the amount.
func (p Paise) Abs() Paise {
	if p < 0 {
		return -p
	}
	return p
}

// SplitEqual divides total into n shares that sum back to total exactly.
// The division remainder (at most n-1 paise) is assigned to the first share,
// so iteration order of the member list decides who absorbs the odd paise.
func SplitEqual(total Paise, n int) ([]Paise, error) {
	if n <= 0 {
		return nil, ErrNoShares
	}
	if total <= 0 {
		return nil, ErrInvalidAmount
	}
	each := total / Paise(n)
	shares := make([]Paise, n)
	for i := range shares {
		shares[i] = each
	}
	shares[0] += total - each*Paise(n)
	return shares, nil
}
