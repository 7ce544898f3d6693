package tax

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders v with thousands separators and two decimals,
// e.g. 1,234,567.89.
func FormatAmount(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", v)
}

// FormatNaira is FormatAmount prefixed with the Naira sign.
func FormatNaira(v float64) string {
	return "₦" + FormatAmount(v)
}
