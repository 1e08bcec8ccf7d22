package gridengine

import (
	"sort"

	"github.com/gnemet/gridengine/internal/natural"
)

// LOVItem is one entry of a list of values offered by a filter picker.
type LOVItem struct {
	Value interface{} `json:"value"`
	Label string      `json:"label"`
	Count int         `json:"count"`
}

// FilterChoices lists the distinct non-null values at path in natural order, with the
// number of records carrying each.
func FilterChoices(records []Record, path string) []LOVItem {
	index := make(map[string]int)
	var items []LOVItem

	for _, rec := range records {
		v := Get(rec, path)
		if v == nil {
			continue
		}
		label := toString(v)
		if i, ok := index[label]; ok {
			items[i].Count++
			continue
		}
		index[label] = len(items)
		items = append(items, LOVItem{Value: v, Label: label, Count: 1})
	}

	order := natural.New(defaultLocale)
	sort.SliceStable(items, func(i, j int) bool {
		return order.Compare(items[i].Value, items[j].Value) < 0
	})
	return items
}
