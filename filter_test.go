package gridengine

import (
	"reflect"
	"testing"
	"time"
)

func dataToFilter() []Record {
	return []Record{
		{"email": "test@example.com", "balance": 100, "confirmed": true, "date": "2022-01-02", "nullable": true},
		{"email": "test@gmail.com", "balance": 50, "confirmed": true, "date": "2022-01-01"},
		{"email": "test@gmail.com", "balance": 150, "confirmed": false, "date": "2022-01-03"},
	}
}

func pick(records []Record, idx ...int) []Record {
	out := make([]Record, len(idx))
	for i, n := range idx {
		out[i] = records[n]
	}
	return out
}

func TestFilter(t *testing.T) {
	data := dataToFilter()

	tests := []struct {
		name   string
		filter ActiveFilter
		want   []int
	}{
		{"exists", ActiveFilter{Path: "nullable", Operator: OpExists, Type: TypeBoolean}, []int{0}},
		{"not exists", ActiveFilter{Path: "nullable", Operator: OpNotExists}, []int{1, 2}},
		{"contains", ActiveFilter{Path: "email", Operator: OpContains, Value: "gmail.com"}, []int{1, 2}},
		{"contains ignores case", ActiveFilter{Path: "email", Operator: OpContains, Value: "GMAIL"}, []int{1, 2}},
		{"not contains", ActiveFilter{Path: "email", Operator: OpNotContains, Value: "gmail.com"}, []int{0}},
		{"greater", ActiveFilter{Path: "balance", Operator: OpGreater, Value: 50}, []int{0, 2}},
		{"less or equal", ActiveFilter{Path: "balance", Operator: OpLessEqual, Value: 50}, []int{1}},
		{"number typed", ActiveFilter{Path: "balance", Operator: OpGreaterEqual, Type: TypeNumber, Value: "100"}, []int{0, 2}},
		{"date before", ActiveFilter{Path: "date", Operator: OpLess, Type: TypeDate, Value: "2022-01-03"}, []int{0, 1}},
		{"date equal", ActiveFilter{Path: "date", Operator: OpEqual, Type: TypeDate, Value: "2022-01-02T15:04:05Z"}, []int{0}},
		{"string equal", ActiveFilter{Path: "email", Operator: OpEqual, Type: TypeString, Value: "TEST@GMAIL.COM"}, []int{1, 2}},
		{"not equal", ActiveFilter{Path: "confirmed", Operator: OpNotEqual, Type: TypeBoolean, Value: true}, []int{2}},
		{"boolean from string", ActiveFilter{Path: "confirmed", Operator: OpEqual, Type: TypeBoolean, Value: "true"}, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(data, []ActiveFilter{tt.filter})
			want := pick(data, tt.want...)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Expected %v, got %v", want, got)
			}
		})
	}
}

func TestFilter_EmptyIsIdentity(t *testing.T) {
	data := dataToFilter()
	got := Filter(data, nil)
	if !reflect.DeepEqual(got, data) {
		t.Errorf("Expected the input unchanged, got %v", got)
	}
}

func TestFilter_And(t *testing.T) {
	data := dataToFilter()
	got := Filter(data, []ActiveFilter{
		{Path: "email", Operator: OpContains, Value: "gmail"},
		{Path: "balance", Operator: OpGreater, Value: 100},
	})
	if !reflect.DeepEqual(got, pick(data, 2)) {
		t.Errorf("Expected only the third record, got %v", got)
	}
}

func TestFilter_NullNeverMatches(t *testing.T) {
	data := []Record{{"balance": nil}, {"balance": "n/a"}, {}, {"balance": 10}}

	got := Filter(data, []ActiveFilter{{Path: "balance", Operator: OpLess, Type: TypeNumber, Value: 100}})
	if len(got) != 1 || got[0]["balance"] != 10 {
		t.Errorf("Expected only the numeric balance, got %v", got)
	}

	got = Filter(data, []ActiveFilter{{Path: "balance", Operator: OpNotEqual, Type: TypeNumber, Value: 10}})
	if len(got) != 0 {
		t.Errorf("Expected null and NaN values to be excluded, got %v", got)
	}

	got = Filter(data, []ActiveFilter{{Path: "balance", Operator: OpEqual, Type: TypeNumber, Value: nil}})
	if len(got) != 0 {
		t.Errorf("Expected a null filter value to match nothing, got %v", got)
	}
}

func TestFilter_DateBoundaries(t *testing.T) {
	data := []Record{
		{"at": "2022-01-02T23:30:00Z"},
		{"at": "2022-01-03T00:10:00Z"},
	}

	// <= covers the whole filter day
	got := Filter(data, []ActiveFilter{{Path: "at", Operator: OpLessEqual, Type: TypeDate, Value: "2022-01-02"}})
	if len(got) != 1 || got[0]["at"] != "2022-01-02T23:30:00Z" {
		t.Errorf("Expected the record on the filter day, got %v", got)
	}

	got = Filter(data, []ActiveFilter{{Path: "at", Operator: OpGreaterEqual, Type: TypeDate, Value: "2022-01-03"}})
	if len(got) != 1 || got[0]["at"] != "2022-01-03T00:10:00Z" {
		t.Errorf("Expected the record on the following day, got %v", got)
	}

	got = Filter(data, []ActiveFilter{{Path: "at", Operator: OpEqual, Type: TypeDate, Value: "not a date"}})
	if len(got) != 0 {
		t.Errorf("Expected an unparseable date to match nothing, got %v", got)
	}
}

func TestFilter_ContainsPattern(t *testing.T) {
	data := []Record{{"v": "a.c"}, {"v": "abc"}, {"v": "(x)"}}

	got := Filter(data, []ActiveFilter{{Path: "v", Operator: OpContains, Value: "^A.C$"}})
	if len(got) != 2 {
		t.Errorf("Expected the pattern to match a.c and abc, got %v", got)
	}

	got = Filter(data, []ActiveFilter{{Path: "v", Operator: OpContains, Value: `a\.c`}})
	if len(got) != 1 || got[0]["v"] != "a.c" {
		t.Errorf("Expected the escaped dot to match literally, got %v", got)
	}

	got = Filter(data, []ActiveFilter{{Path: "v", Operator: OpContains, Value: "(x"}})
	if len(got) != 1 || got[0]["v"] != "(x)" {
		t.Errorf("Expected an invalid pattern to match literally, got %v", got)
	}

	got = Filter(data, []ActiveFilter{{Path: "v", Operator: OpNotContains, Value: "(x"}})
	if len(got) != 2 {
		t.Errorf("Expected the negation of the literal match, got %v", got)
	}
}

func TestFilter_Location(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	data := []Record{{"at": time.Date(2022, 1, 2, 23, 0, 0, 0, time.UTC)}}

	got := filterIn(data, identity, []ActiveFilter{{Path: "at", Operator: OpEqual, Type: TypeDate, Value: "2022-01-03"}}, loc)
	if len(got) != 1 {
		t.Errorf("Expected the UTC evening to fall on the next local day, got %v", got)
	}
}

func TestActiveFilter_Validate(t *testing.T) {
	if err := (ActiveFilter{Path: "a", Operator: OpEqual}).Validate(); err != nil {
		t.Errorf("Expected a valid filter, got %v", err)
	}
	if err := (ActiveFilter{Path: "a", Operator: "like"}).Validate(); err == nil {
		t.Error("Expected an error for an unknown operator")
	}
	if err := (ActiveFilter{Path: "a", Operator: OpEqual, Type: "money"}).Validate(); err == nil {
		t.Error("Expected an error for an unknown type")
	}
	if err := (ActiveFilter{Operator: OpEqual}).Validate(); err == nil {
		t.Error("Expected an error for a missing path")
	}
}
