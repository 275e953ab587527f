package model

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrAmountOutOfRange is returned for amounts that do not fit in int64 minor units.
var ErrAmountOutOfRange = errors.New("amount out of range")

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// minorUnits converts a major-unit amount (e.g. dollars) to minor units (e.g.
// cents), rounding half away from zero. The result is not narrowed.
func minorUnits(amount decimal.Decimal) decimal.Decimal {
	return amount.Shift(2).Round(0)
}

// ToMinorUnits converts a major-unit amount to int64 minor units.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	cents := minorUnits(amount)
	if cents.GreaterThan(maxMinorUnits) || cents.LessThan(minMinorUnits) {
		return 0, ErrAmountOutOfRange
	}
	return cents.IntPart(), nil
}

// ClampMinorUnits converts a major-unit amount to minor units clamped to
// [0, limit]. Values of any magnitude clamp instead of overflowing.
func ClampMinorUnits(amount decimal.Decimal, limit int64) int64 {
	cents := minorUnits(amount)
	switch {
	case cents.Sign() <= 0:
		return 0
	case cents.GreaterThan(decimal.NewFromInt(limit)):
		return limit
	}
	return cents.IntPart()
}

// FromMinorUnits converts minor units back to an exact major-unit amount.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

var currencySymbols = map[string]string{
	"usd": "$",
	"cny": "¥",
	"eur": "€",
	"gbp": "£",
}

// FormatMinorUnits renders minor units in the order's currency, e.g.
// (5000, "usd") -> "$50.00" and (5000, "hkd") -> "50.00 HKD".
func FormatMinorUnits(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	value := FromMinorUnits(amount).Abs().StringFixed(2)

	code := strings.ToLower(strings.TrimSpace(currency))
	if symbol, ok := currencySymbols[code]; ok {
		return sign + symbol + value
	}
	if code == "" {
		return sign + value
	}
	return sign + value + " " + strings.ToUpper(code)
}
