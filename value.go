package gridengine

import (
	"log/slog"

	"golang.org/x/text/language"

	"github.com/gnemet/gridengine/internal/numfmt"
)

// DefaultCurrency is used by monetary columns that do not name a currency.
const DefaultCurrency = "USD"

type resolver struct {
	numbers  *numfmt.Formatter
	currency string
	logger   *slog.Logger
}

func newResolver(tag language.Tag, currency string, logger *slog.Logger) *resolver {
	if currency == "" {
		currency = DefaultCurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &resolver{numbers: numfmt.New(tag), currency: currency, logger: logger}
}

// Resolve produces the display value of a column for a record with the default locale.
func Resolve(col Column, rec Record, rowID string, rowIndex int, isExport bool) interface{} {
	return newResolver(defaultLocale, DefaultCurrency, nil).resolve(col, rec, rowID, rowIndex, isExport)
}

func (r *resolver) resolve(col Column, rec Record, rowID string, rowIndex int, isExport bool) interface{} {
	switch src := col.Source().(type) {
	case NumericValue:
		return r.number(col, src, rec)
	case RenderValue:
		return src.Render(rec, isExport, rowID, rowIndex)
	case PathValue:
		return Get(rec, src.Path)
	}
	return nil
}

// number formats the numeric value, or returns "" when the value is not a number.
// Numeric strings, such as NUMERIC columns read as text, are accepted.
func (r *resolver) number(col Column, n NumericValue, rec Record) interface{} {
	path := n.Path
	if path == "" {
		path = col.DataIndex
	}
	v, ok := extractFloat(Get(rec, path))
	if !ok {
		return ""
	}

	opts := numfmt.Options{
		MinFraction: n.MinDecimalPlaces,
		MaxFraction: n.MaxDecimalPlaces,
		Currency:    n.Currency,
	}
	if n.DecimalPlaces != nil {
		if opts.MinFraction == nil {
			opts.MinFraction = n.DecimalPlaces
		}
		if opts.MaxFraction == nil {
			opts.MaxFraction = n.DecimalPlaces
		}
	}
	if n.Monetary && opts.Currency == "" {
		opts.Currency = r.currency
	}

	s, err := r.numbers.Format(v, opts)
	if err != nil {
		r.logger.Error("format numeric cell", "column", col.Key, "error", err)
		return ""
	}
	return s
}
