package runrate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Formatter renders a cell value for display.
type Formatter func(v any) string

// FormatCurrency renders v as US dollars with grouped thousands, e.g.
// "$1,234.56" or "-$12.00". Nil renders as "".
func FormatCurrency(v any) string {
	if v == nil {
		return ""
	}
	f := ParseNumeric(v)
	if f < 0 {
		return "-$" + printer.Sprintf("%.2f", -f)
	}
	return "$" + printer.Sprintf("%.2f", f)
}

// FormatPercent renders v with two decimals and a percent sign, e.g. "116.67%".
func FormatPercent(v any) string {
	if v == nil {
		return ""
	}
	return printer.Sprintf("%.2f", ParseNumeric(v)) + "%"
}
