// Package numfmt renders numbers for display using locale grouping and fraction rules.
package numfmt

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const defaultMaxFraction = 3

// Options bound the fraction digits. Nil bounds fall back to the defaults:
// 0..3 digits for plain numbers, the currency's standard scale for money.
type Options struct {
	MinFraction *int
	MaxFraction *int
	Currency    string // ISO 4217 code, empty for plain numbers
}

// Formatter formats numbers for one locale.
type Formatter struct {
	printer *message.Printer
}

// New returns a Formatter for the locale.
func New(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Format renders v. An unknown currency code is an error.
func (f *Formatter) Format(v float64, opts Options) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("cannot format %v", v)
	}

	lo, hi := 0, defaultMaxFraction
	var symbol string
	if opts.Currency != "" {
		unit, err := currency.ParseISO(opts.Currency)
		if err != nil {
			return "", fmt.Errorf("currency %q: %w", opts.Currency, err)
		}
		scale, _ := currency.Standard.Rounding(unit)
		lo, hi = scale, scale
		symbol = f.printer.Sprint(currency.Symbol(unit))
	}
	if opts.MinFraction != nil {
		lo = *opts.MinFraction
	}
	if opts.MaxFraction != nil {
		hi = *opts.MaxFraction
	}
	if hi < lo {
		hi = lo
	}

	sign := ""
	if v < 0 && symbol != "" {
		sign, v = "-", -v
	}
	digits := f.printer.Sprint(number.Decimal(v, number.MinFractionDigits(lo), number.MaxFractionDigits(hi)))
	return sign + symbol + digits, nil
}
