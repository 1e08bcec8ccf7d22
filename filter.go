package gridengine

import (
	"reflect"
	"regexp"
	"strings"
	"time"
)

// Filter keeps the records matching every active filter. An empty filter list returns
// the input unchanged.
func Filter(records []Record, filters []ActiveFilter) []Record {
	return filterIn(records, identity, filters, time.UTC)
}

func identity(rec Record) Record { return rec }

func filterIn[T any](items []T, rec func(T) Record, filters []ActiveFilter, loc *time.Location) []T {
	if len(filters) == 0 {
		return items
	}

	preds := make([]func(Record) bool, 0, len(filters))
	for _, f := range filters {
		preds = append(preds, compileFilter(f, loc))
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, p := range preds {
			if !p(rec(item)) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

func compileFilter(f ActiveFilter, loc *time.Location) func(Record) bool {
	switch f.Operator {
	case OpExists:
		return func(rec Record) bool { return Get(rec, f.Path) != nil }
	case OpNotExists:
		return func(rec Record) bool { return Get(rec, f.Path) == nil }
	case OpContains, OpNotContains:
		q := ConvertIn(f.Value, TypeString, loc)
		if q == nil {
			return never
		}
		re := containsPattern(q.(string))
		want := f.Operator == OpContains
		return func(rec Record) bool {
			v := ConvertIn(Get(rec, f.Path), TypeString, loc)
			if v == nil {
				return false
			}
			return re.MatchString(v.(string)) == want
		}
	}

	q := ConvertIn(f.Value, f.Type, loc)
	if isNull(q) {
		return never
	}

	var test func(v interface{}) bool
	switch f.Operator {
	case OpEqual:
		test = func(v interface{}) bool { return equalValues(v, q, f.Type) }
	case OpNotEqual:
		test = func(v interface{}) bool { return !equalValues(v, q, f.Type) }
	case OpGreater:
		test = ordinalTest(q, func(c int) bool { return c > 0 })
	case OpGreaterEqual:
		test = ordinalTest(q, func(c int) bool { return c >= 0 })
	case OpLess:
		test = ordinalTest(q, func(c int) bool { return c < 0 })
	case OpLessEqual:
		if day, ok := q.(time.Time); ok && f.Type == TypeDate {
			// the filter date covers its whole day
			end := day.AddDate(0, 0, 1)
			test = func(v interface{}) bool {
				t, ok := v.(time.Time)
				return ok && t.Before(end)
			}
		} else {
			test = ordinalTest(q, func(c int) bool { return c <= 0 })
		}
	default:
		return never
	}

	return func(rec Record) bool {
		v := ConvertIn(Get(rec, f.Path), f.Type, loc)
		if isNull(v) {
			return false
		}
		return test(v)
	}
}

func never(Record) bool { return false }

func ordinalTest(q interface{}, accept func(int) bool) func(interface{}) bool {
	return func(v interface{}) bool {
		c, ok := ordinal(v, q)
		return ok && accept(c)
	}
}

// containsPattern compiles the query as a case-insensitive regular expression, falling
// back to a literal match when it is not a valid one.
func containsPattern(q string) *regexp.Regexp {
	if re, err := regexp.Compile("(?i)" + q); err == nil {
		return re
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
}

func equalValues(a, b interface{}, typ Type) bool {
	switch typ {
	case TypeDate:
		ta, okA := a.(time.Time)
		tb, okB := b.(time.Time)
		if !okA || !okB {
			return false
		}
		ya, ma, da := ta.Date()
		yb, mb, db := tb.Date()
		return ya == yb && ma == mb && da == db
	case TypeString:
		return strings.EqualFold(a.(string), b.(string))
	}

	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		return ok && fa == fb
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		return ok && strings.EqualFold(sa, sb)
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

// ordinal compares values of the same kind; ok is false for incomparable pairs.
func ordinal(a, b interface{}) (c int, ok bool) {
	if fa, okA := asFloat(a); okA {
		fb, okB := asFloat(b)
		if !okB {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	switch va := a.(type) {
	case string:
		vb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(va, vb), true
	case time.Time:
		vb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return va.Compare(vb), true
	case bool:
		vb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case va == vb:
			return 0, true
		case !va:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}
