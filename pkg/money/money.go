// Package money implements fixed-point arithmetic for booking amounts.
// Amounts travel as 2-decimal strings on the wire and in numeric(10,2)
// columns; internally they are integer cents so commission computation is
// deterministic and never subject to float drift.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	// ErrInvalidAmount indicates a malformed amount string. Zero is a
	// valid amount here ("0.00" commission); positivity is a caller rule.
	ErrInvalidAmount = errors.New("amount must be a decimal with at most 2 decimal places")

	// ErrInvalidRate indicates a malformed percentage rate string
	ErrInvalidRate = errors.New("rate must be a decimal percentage with at most 2 decimal places")
)

var amountRegex = regexp.MustCompile(`^(\d+)(?:\.(\d{1,2}))?$`)

// ParseAmount parses a decimal string like "90.00" into cents.
func ParseAmount(s string) (int64, error) {
	m := amountRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, ErrInvalidAmount
	}
	whole, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if m[2] != "" {
		frac, _ = strconv.ParseInt(m[2], 10, 64)
		if len(m[2]) == 1 {
			frac *= 10
		}
	}
	return whole*100 + frac, nil
}

// ParseRate parses a percentage like "8.00" into basis points (825 for
// "8.25").
func ParseRate(s string) (int64, error) {
	bps, err := ParseAmount(s)
	if err != nil {
		return 0, ErrInvalidRate
	}
	return bps, nil
}

// Format renders cents as a 2-decimal string.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Commission computes round(total * rate / 100, 2) with half-up rounding,
// where total is in cents and rate in basis points.
func Commission(totalCents, rateBps int64) int64 {
	if totalCents <= 0 || rateBps <= 0 {
		return 0
	}
	return (totalCents*rateBps + 5000) / 10000
}

// Mul multiplies a per-seat price in cents by a seat count.
func Mul(cents int64, count int) int64 {
	return cents * int64(count)
}
