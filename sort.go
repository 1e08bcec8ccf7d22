package gridengine

import (
	"sort"

	"golang.org/x/text/language"

	"github.com/gnemet/gridengine/internal/natural"
)

// SortRecords orders records by the sort request. It returns the input unchanged when the
// sort has no key or no direction. Equal keys keep their relative order.
func SortRecords(records []Record, s Sort, cols Structure) []Record {
	return sortIn(records, identity, s, cols, defaultLocale)
}

func sortIn[T any](items []T, rec func(T) Record, s Sort, cols Structure, tag language.Tag) []T {
	if !s.Active() {
		return items
	}

	cmp := comparatorFor(s.Key, cols, tag)
	out := make([]T, len(items))
	copy(out, items)

	if s.Direction == Desc {
		sort.SliceStable(out, func(i, j int) bool { return cmp(rec(out[j]), rec(out[i])) < 0 })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return cmp(rec(out[i]), rec(out[j])) < 0 })
	}
	return out
}

// comparatorFor resolves the ascending comparator for a sort key: a column comparator,
// the column's alternate sort path, its data index, or the key itself as a path.
func comparatorFor(key string, cols Structure, tag language.Tag) Comparator {
	path := key
	if col, ok := cols.Lookup(key); ok {
		switch col.Sorter.kind {
		case sortFunc:
			return col.Sorter.cmp
		case sortPath:
			path = col.Sorter.path
		default:
			if col.DataIndex != "" {
				path = col.DataIndex
			}
		}
	}

	order := natural.New(tag)
	return func(a, b Record) int {
		return order.Compare(Get(a, path), Get(b, path))
	}
}
