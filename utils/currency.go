package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL formats an amount as Brazilian Real.
// Example: 1234.5 -> "R$ 1.234,50"
func FormatBRL(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	parts := strings.SplitN(s, ".", 2)
	integerPart, decimalPart := parts[0], parts[1]

	// pemisah ribuan
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := "R$ " + strings.Join(groups, ".") + "," + decimalPart
	if neg {
		return "-" + out
	}
	return out
}
