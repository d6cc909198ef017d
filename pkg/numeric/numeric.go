// Package numeric holds the fixed-point decimal used for hours, rates and
// money. Values keep full precision internally and are only rounded when
// rendered.
package numeric

import (
	"database/sql/driver"
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed is a decimal that renders as a JSON number with exactly two
// fractional digits, e.g. 8 -> 8.00.
type Fixed struct {
	decimal.Decimal
}

// Zero is the additive identity.
var Zero = Fixed{decimal.Zero}

// New wraps an existing decimal.
func New(d decimal.Decimal) Fixed {
	return Fixed{d}
}

// FromFloat converts a float, e.g. a query parameter or config default.
func FromFloat(f float64) Fixed {
	return Fixed{decimal.NewFromFloat(f)}
}

// MustParse parses s and panics on malformed input. Intended for tests and constants.
func MustParse(s string) Fixed {
	return Fixed{decimal.RequireFromString(s)}
}

// Add returns f + o.
func (f Fixed) Add(o Fixed) Fixed {
	return Fixed{f.Decimal.Add(o.Decimal)}
}

// Mul returns f × o.
func (f Fixed) Mul(o Fixed) Fixed {
	return Fixed{f.Decimal.Mul(o.Decimal)}
}

// Round2 rounds half away from zero to two places.
func (f Fixed) Round2() Fixed {
	return Fixed{f.Decimal.Round(2)}
}

// String formats with exactly two fractional digits.
func (f Fixed) String() string {
	return f.Decimal.StringFixed(2)
}

// MarshalJSON emits an unquoted number with two fractional digits.
func (f Fixed) MarshalJSON() ([]byte, error) {
	return []byte(f.Decimal.StringFixed(2)), nil
}

// UnmarshalJSON accepts both numbers and quoted numbers.
func (f *Fixed) UnmarshalJSON(b []byte) error {
	return f.Decimal.UnmarshalJSON(b)
}

// Scan implements sql.Scanner for NUMERIC columns.
func (f *Fixed) Scan(value interface{}) error {
	return f.Decimal.Scan(value)
}

// Value implements driver.Valuer.
func (f Fixed) Value() (driver.Value, error) {
	return f.Decimal.Value()
}

// Sum adds all values.
func Sum(values ...Fixed) Fixed {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Rate is a Fixed rendered at full precision with at least two fractional
// digits, e.g. 1.5 -> 1.50 and 1.125 -> 1.125. Used to echo configured rates.
type Rate struct {
	Fixed
}

// Exact returns f as a Rate.
func (f Fixed) Exact() Rate {
	return Rate{f}
}

// String formats with max(2, significant fractional digits) places.
func (r Rate) String() string {
	return r.Decimal.StringFixed(r.places())
}

// MarshalJSON emits an unquoted number without losing precision.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r Rate) places() int32 {
	places := int32(2)
	s := r.Decimal.String()
	if i := strings.IndexByte(s, '.'); i >= 0 {
		if n := int32(len(s) - i - 1); n > places {
			places = n
		}
	}
	return places
}
