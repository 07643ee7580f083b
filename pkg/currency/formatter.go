package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Format renders amount with two decimals and thousands separators,
// prefixed by the currency symbol when one is known ("$1,234.50") and by
// the ISO code otherwise ("CAD 1,234.50").
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(code)

	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(fixed, ".")
	formatted := addThousandsSeparator(intPart, ",") + "." + frac

	prefix := code + " "
	if sym, ok := symbols[code]; ok {
		prefix = sym
	}

	result := prefix + formatted
	if negative {
		result = "-" + result
	}
	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
