// Package money holds the decimal helpers shared by the catalog, plan engine and report renderers.
// Amounts are accumulated at full precision and rounded only when formatted.
package money

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	displayPlaces = 2

	// MaxScale is the number of fractional digits an entered or stored amount may carry.
	MaxScale = 2
)

var (
	// Limit bounds the magnitude of every entered or stored amount.
	Limit = decimal.New(1, 12)

	ErrOutOfRange = errors.New("amount out of range")
	ErrTooPrecise = fmt.Errorf("amount has more than %d decimal places", MaxScale)
)

// Parse reads a plain decimal amount such as "85.50". Surrounding spaces and a leading "$" are ignored.
// Exponent notation is rejected, and the amount must pass Check.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("invalid amount %q: exponent notation is not accepted", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if err := Check(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Check reports whether d can be stored: below Limit in magnitude and at most MaxScale decimal places.
func Check(d decimal.Decimal) error {
	if d.Abs().GreaterThanOrEqual(Limit) {
		return fmt.Errorf("%w: must be below %s in magnitude", ErrOutOfRange, Limit)
	}
	if !d.Equal(d.Truncate(MaxScale)) {
		return fmt.Errorf("%w: %s", ErrTooPrecise, d)
	}
	return nil
}

// Value converts d into the text written to a REAL price column. Amounts failing Check are refused.
func Value(d decimal.Decimal) (driver.Value, error) {
	if err := Check(d); err != nil {
		return nil, err
	}
	return d.String(), nil
}

// Column scans a price column into dst. Non-finite values are returned as ErrOutOfRange instead of
// reaching decimal's float conversion.
func Column(dst *decimal.Decimal) sql.Scanner {
	return column{dst}
}

type column struct {
	dst *decimal.Decimal
}

func (c column) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return errors.New("amount is NULL")
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: stored value %v", ErrOutOfRange, v)
		}
		*c.dst = decimal.NewFromFloat(v)
		return nil
	default:
		return c.dst.Scan(v)
	}
}

// Round rounds half to even to two places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(displayPlaces)
}

// Plain formats d with two places and no symbol, e.g. "-50.00".
func Plain(d decimal.Decimal) string {
	return Round(d).StringFixed(displayPlaces)
}

// Format formats d with the currency symbol placed after the sign, e.g. "$285.50" or "-$50.00".
func Format(d decimal.Decimal, symbol string) string {
	rounded := Round(d)
	if rounded.IsNegative() {
		return "-" + symbol + rounded.Neg().StringFixed(displayPlaces)
	}
	return symbol + rounded.StringFixed(displayPlaces)
}

func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
