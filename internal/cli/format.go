package cli

import (
	"fmt"
	"strings"
)

// FormatUSD formats an amount as US dollars with thousands separators.
func FormatUSD(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := int64(amount)
	cents := int64(amount*100+0.5) - whole*100
	if cents >= 100 {
		whole++
		cents -= 100
	}

	grouped := groupThousands(whole)
	result := fmt.Sprintf("$%s.%02d", grouped, cents)
	if negative && (whole > 0 || cents > 0) {
		return "-" + result
	}
	return result
}

func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return strings.Join(groups, ",")
}

// FormatShares formats a share count, trimming trailing zeros for
// fractional positions.
func FormatShares(shares float64) string {
	if shares == float64(int64(shares)) {
		return fmt.Sprintf("%d", int64(shares))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", shares), "0"), ".")
}

// FormatOptional renders a nullable value, using a dash for unknowns.
func FormatOptional(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatOptionalUSD renders a nullable dollar value.
func FormatOptionalUSD(v *float64) string {
	if v == nil {
		return "—"
	}
	return FormatUSD(*v)
}
