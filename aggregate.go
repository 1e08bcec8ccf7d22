package gridengine

import (
	"fmt"
	"strings"

	"github.com/gnemet/gridengine/internal/numfmt"
)

// Aggregate computes SUM, AVG, COUNT, MIN or MAX of the numeric values at path.
// COUNT counts non-null values; the other functions skip values that are not numbers.
// Unknown functions sum.
func Aggregate(records []Record, path, fn string) float64 {
	fn = strings.ToUpper(fn)
	var sum, lo, hi float64
	count := 0

	for _, rec := range records {
		raw := Get(rec, path)
		if fn == "COUNT" {
			if raw != nil {
				count++
			}
			continue
		}
		v, ok := extractFloat(raw)
		if !ok {
			continue
		}
		if count == 0 || v < lo {
			lo = v
		}
		if count == 0 || v > hi {
			hi = v
		}
		sum += v
		count++
	}

	switch fn {
	case "AVG":
		if count > 0 {
			return sum / float64(count)
		}
		return 0
	case "COUNT":
		return float64(count)
	case "MIN":
		return lo
	case "MAX":
		return hi
	default:
		return sum
	}
}

// TotalTitle builds a dynamic column title such as "Balance (150)" from an aggregate.
func TotalTitle(label, path, fn string) func([]Record) string {
	return func(records []Record) string {
		total := Aggregate(records, path, fn)
		s, err := numfmt.New(defaultLocale).Format(total, numfmt.Options{})
		if err != nil {
			s = fmt.Sprint(total)
		}
		return fmt.Sprintf("%s (%s)", label, s)
	}
}

// extractFloat reads numbers and numeric strings.
func extractFloat(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if f, ok := asFloat(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		f := toNumber(s)
		return f, !isNull(f)
	}
	return 0, false
}
