package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CentPlaces is the number of decimal places kept on every generated amount.
const CentPlaces = 2

// RoundCents rounds an amount to the nearest cent, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// FormatAmount formats an amount with exactly two decimals (e.g., "-1234.50").
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(CentPlaces)
}

// ParseAmount parses an amount as written in a spreadsheet cell.
// Currency symbols, thousands separators and surrounding spaces are ignored,
// and a value wrapped in parentheses is negative.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", text, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// SumAmounts returns the total of the given amounts
func SumAmounts(amounts ...decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(amounts[0], amounts[1:]...)
}
