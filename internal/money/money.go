// Package money converts decimal currency amounts to the target's integer
// minor units.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Converter converts between decimal amounts and integers scaled by
// 10^places. The number of places comes from the target budget.
type Converter struct {
	places int32
}

// NewConverter returns a Converter for the given number of minor-unit places.
func NewConverter(places int32) Converter {
	return Converter{places: places}
}

// ErrOutOfRange is returned for amounts whose minor units do not fit in an int64.
var ErrOutOfRange = errors.New("amount out of range")

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Places returns the minor-unit scale.
func (c Converter) Places() int32 { return c.places }

// ToInteger converts d to minor units, rounding half away from zero.
func (c Converter) ToInteger(d decimal.Decimal) (int64, error) {
	n := d.Shift(c.places).Round(0)
	if n.GreaterThan(maxMinor) || n.LessThan(minMinor) {
		return 0, fmt.Errorf("%s at %d places: %w", d, c.places, ErrOutOfRange)
	}
	return n.IntPart(), nil
}

// ParseDecimal reads a bank-formatted amount. It accepts an optional
// currency symbol, thousands separators and accounting-style parentheses
// for negatives, e.g. "$1,234.56" or "(12.00)".
func ParseDecimal(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Parse reads a bank-formatted amount and converts it to minor units.
func (c Converter) Parse(s string) (int64, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return 0, err
	}
	return c.ToInteger(d)
}
