package gridengine

import (
	"math"
	"reflect"
	"time"
)

// FindIndexFrom returns the first index at or after from whose element satisfies pred,
// or -1.
func FindIndexFrom[T any](s []T, from int, pred func(T) bool) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(s); i++ {
		if pred(s[i]) {
			return i
		}
	}
	return -1
}

// SpanAt returns how many rows the groupPath cell at index covers:
// 1 for rows without a group value, 0 for a row already covered by the row above,
// otherwise the length of the run of equal values starting at index.
func SpanAt(records []Record, groupPath string, index int) int {
	if index < 0 || index >= len(records) {
		return 0
	}
	v := Get(records[index], groupPath)
	if falsy(v) {
		return 1
	}
	if index > 0 && sameGroup(Get(records[index-1], groupPath), v) {
		return 0
	}
	next := FindIndexFrom(records, index+1, func(rec Record) bool {
		return !sameGroup(Get(rec, groupPath), v)
	})
	if next == -1 {
		return len(records) - index
	}
	return next - index
}

// CellSpan returns the row span of a column cell: the column's RowSpan override, the
// GroupBy run length, or 1.
func CellSpan(col Column, records []Record, index int) int {
	if col.RowSpan != nil {
		return col.RowSpan(records[index], index, records)
	}
	if col.GroupBy != "" {
		return SpanAt(records, col.GroupBy, index)
	}
	return 1
}

// sameGroup is strict: group values that differ only in case are different groups.
func sameGroup(a, b interface{}) bool {
	if falsy(a) || falsy(b) {
		return false
	}
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		return ok && fa == fb
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

func falsy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	}
	if f, ok := asFloat(v); ok {
		return f == 0 || math.IsNaN(f)
	}
	return false
}
