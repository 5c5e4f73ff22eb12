package common

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders an amount as dollars with thousands separators, e.g. $750,000.00
func FormatMoney(v float64) string {
	if v < 0 {
		return printer.Sprintf("-$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatInt renders an integer with thousands separators.
func FormatInt(v int) string {
	return printer.Sprintf("%d", v)
}

// FormatPercent renders a [0,1] ratio as a whole percentage.
func FormatPercent(v float64) string {
	return printer.Sprintf("%.0f%%", v*100)
}
