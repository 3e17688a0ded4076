// Package money handles invoice amounts as integer cents to avoid float
// issues. User input arrives as a decimal string and is parsed before it
// ever reaches the store.
package money

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Cents is a monetary amount in hundredths of the office currency unit.
type Cents int64

// Up to two fraction digits, no sign: amounts are never negative.
var amountPattern = regexp.MustCompile(`^\d+(?:\.\d{1,2})?$`)

// Parse converts a user-supplied decimal string into cents. It rejects
// negative, malformed, and over-precise input.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	sub, _ := strconv.ParseInt(frac, 10, 64)
	if units > (math.MaxInt64-sub)/100 {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	return Cents(units*100 + sub), nil
}

// String formats cents back to a two-decimal string, e.g. 25000 → "250.00".
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
