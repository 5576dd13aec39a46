package cli

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount without minor units and with French digit grouping,
// for example "1 500 000 XOF".
func FormatMoney(amount decimal.Decimal, currency string) string {
	digits := amount.Round(0).StringFixed(0)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	out := sign + b.String()
	if currency != "" {
		out += " " + currency
	}
	return out
}

// FormatPercent formats a fraction such as 0.125 as "12.5 %".
func FormatPercent(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).Round(2).String() + " %"
}

// FormatDate formats t as dd/mm/yyyy, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

// FormatDatePtr is FormatDate for optional dates.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return FormatDate(*t)
}

// FormatDateTime formats t as dd/mm/yyyy hh:mm.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

// Truncate shortens s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// YesNo renders a boolean in French.
func YesNo(v bool) string {
	if v {
		return "Oui"
	}
	return "Non"
}
