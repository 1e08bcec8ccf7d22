package gridengine

import (
	"reflect"
	"testing"
)

func names(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r["name"].(string)
	}
	return out
}

func TestSortRecords(t *testing.T) {
	data := []Record{
		{"name": "item 10", "n": 3},
		{"name": "item 2", "n": 1},
		{"name": "Item 1", "n": 2},
	}
	cols := MustStructure(Column{Key: "name", DataIndex: "name", Sorter: SortByDataIndex()})

	got := names(SortRecords(data, Sort{Key: "name", Direction: Asc}, cols))
	want := []string{"Item 1", "item 2", "item 10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got = names(SortRecords(data, Sort{Key: "name", Direction: Desc}, cols))
	want = []string{"item 10", "item 2", "Item 1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if names(data)[0] != "item 10" {
		t.Errorf("Expected the input to stay untouched, got %v", names(data))
	}
}

func TestSortRecords_NoDirectionIsNoop(t *testing.T) {
	data := []Record{{"n": 2}, {"n": 1}}
	for _, s := range []Sort{{}, {Key: "n"}, {Direction: Asc}} {
		got := SortRecords(data, s, Structure{})
		if !reflect.DeepEqual(got, data) {
			t.Errorf("Expected %+v to leave the order, got %v", s, got)
		}
	}
}

func TestSortRecords_Stable(t *testing.T) {
	data := []Record{
		{"name": "a", "group": 2},
		{"name": "b", "group": 1},
		{"name": "c", "group": 2},
		{"name": "d", "group": 1},
	}

	got := names(SortRecords(data, Sort{Key: "group", Direction: Asc}, Structure{}))
	want := []string{"b", "d", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got = names(SortRecords(data, Sort{Key: "group", Direction: Desc}, Structure{}))
	want = []string{"a", "c", "b", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected duplicates in original order when descending, got %v", got)
	}
}

func TestSortRecords_Comparator(t *testing.T) {
	data := []Record{{"name": "bb"}, {"name": "a"}, {"name": "ccc"}}
	byLength := func(a, b Record) int {
		return len(a["name"].(string)) - len(b["name"].(string))
	}
	cols := MustStructure(Column{Key: "len", DataIndex: "name", Sorter: SortWith(byLength)})

	got := names(SortRecords(data, Sort{Key: "len", Direction: Asc}, cols))
	if !reflect.DeepEqual(got, []string{"a", "bb", "ccc"}) {
		t.Errorf("Expected shortest first, got %v", got)
	}

	got = names(SortRecords(data, Sort{Key: "len", Direction: Desc}, cols))
	if !reflect.DeepEqual(got, []string{"ccc", "bb", "a"}) {
		t.Errorf("Expected the comparator to be inverted, got %v", got)
	}
}

func TestSortRecords_AlternatePath(t *testing.T) {
	data := []Record{
		{"name": "x", "address": map[string]interface{}{"city": "Szeged"}},
		{"name": "y", "address": map[string]interface{}{"city": "Budapest"}},
	}
	cols := MustStructure(Column{Key: "city", Title: "City", DataIndex: "name", Sorter: SortByPath("address.city")})

	got := names(SortRecords(data, Sort{Key: "city", Direction: Asc}, cols))
	if !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Errorf("Expected the sort path to win over the data index, got %v", got)
	}
}

func TestSortRecords_Missing(t *testing.T) {
	data := []Record{{"name": "a"}, {"name": "b", "n": 2}, {"name": "c", "n": 1}}

	got := names(SortRecords(data, Sort{Key: "n", Direction: Asc}, Structure{}))
	if !reflect.DeepEqual(got, []string{"c", "b", "a"}) {
		t.Errorf("Expected missing values last, got %v", got)
	}
}

func TestSortRecords_MixedNumbers(t *testing.T) {
	data := []Record{{"name": "a", "n": 10.5}, {"name": "b", "n": int64(3)}, {"name": "c", "n": 7}}

	got := names(SortRecords(data, Sort{Key: "n", Direction: Asc}, Structure{}))
	if !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Errorf("Expected numeric order, got %v", got)
	}
}
