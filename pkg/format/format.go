// Package format renders engine figures for French-speaking readers. Digits
// are grouped and the decimal mark placed by the French locale printer.
package format

import (
	"fmt"

	"github.com/iwvelando/property-yield/pkg/constants"
	"github.com/iwvelando/property-yield/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Units are separated from the figure by a no-break space, as the French
// printer does for digit groups.
const (
	euroSuffix    = "\u00a0€"
	percentSuffix = "\u00a0%"
)

var printer = message.NewPrinter(language.French)

// Currency returns a whole-euro amount (e.g., "-12 345 €"). Halves round away
// from zero.
func Currency(amount float64) string {
	return fixed(amount, 0) + euroSuffix
}

// CurrencyCents returns an amount with two decimals (e.g., "1 566,24 €").
func CurrencyCents(amount float64) string {
	return fixed(amount, 2) + euroSuffix
}

// Percent returns a percentage with two decimals (e.g., "5,29 %").
func Percent(value float64) string {
	return fixed(value, 2) + percentSuffix
}

// Duration renders a break-even month count: 0 is immediate, a negative count
// is never.
func Duration(months int) string {
	switch {
	case months == 0:
		return "Immediate"
	case months < 0:
		return "Never profitable"
	}

	years := months / constants.MonthsPerYear
	rest := months % constants.MonthsPerYear
	switch {
	case years == 0:
		return plural(rest, "month")
	case rest == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " and " + plural(rest, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// fixed rounds half away from zero, then lets the French printer group the
// digits of the rounded value.
func fixed(value float64, places int32) string {
	rounded := decimal.NewFromFloat(mathutil.Finite(value)).Round(places)
	return printer.Sprintf("%.*f", int(places), rounded.InexactFloat64())
}
