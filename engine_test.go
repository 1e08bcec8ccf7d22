package gridengine

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func companies() []Record {
	return []Record{
		{"id": "a1", "company": "Acme", "email": "ada@acme.test", "balance": 100},
		{"id": "a2", "company": "Globex", "email": "cecil@globex.test", "balance": 300},
		{"id": "a3", "company": "Acme", "email": "bela@acme.test", "balance": 50},
		{"company": "Initech", "email": "dora@initech.test", "balance": 75},
		{"id": "a5", "company": "Acme", "email": "eve@acme.test", "balance": 10},
	}
}

func companyColumns() Structure {
	return MustStructure(
		Column{Key: "company", Title: "Company", DataIndex: "company", GroupBy: "company", Sorter: SortByDataIndex()},
		Column{Key: "contact", Title: "Contact", Members: []Column{
			{Key: "email", Title: "Email", DataIndex: "email", Sorter: SortByDataIndex(), Filter: &FilterColumn{}},
			{Key: "balance", DataIndex: "balance", TitleFunc: TotalTitle("Balance", "balance", "SUM"),
				Filter: &FilterColumn{Type: TypeNumber}, Value: NumericValue{DecimalPlaces: intp(2)}},
		}},
	)
}

func TestEngine_Query(t *testing.T) {
	e := NewEngine()
	w := Window{
		Sort:          Sort{Key: "company", Direction: Asc},
		ActiveFilters: []ActiveFilter{{Path: "balance", Operator: OpGreaterEqual, Type: TypeNumber, Value: 50}},
		RowsPerPage:   2,
	}

	res := e.Query(companies(), companyColumns(), w)
	if res.Total != 4 {
		t.Errorf("Expected 4 matching rows, got %d", res.Total)
	}
	if res.Pages != 2 {
		t.Errorf("Expected 2 pages, got %d", res.Pages)
	}

	var ids []string
	for _, r := range res.Rows {
		ids = append(ids, r.ID)
	}
	if !reflect.DeepEqual(ids, []string{"a1", "a3"}) {
		t.Errorf("Expected [a1 a3], got %v", ids)
	}

	w.Page = 1
	res = e.Query(companies(), companyColumns(), w)
	ids = ids[:0]
	for _, r := range res.Rows {
		ids = append(ids, r.ID)
	}
	// the record without an id keeps its position in the unfiltered collection
	if !reflect.DeepEqual(ids, []string{"a2", "3"}) {
		t.Errorf("Expected [a2 3], got %v", ids)
	}
	if res.Rows[1].Index != 3 {
		t.Errorf("Expected original index 3, got %d", res.Rows[1].Index)
	}
}

func TestEngine_Cells(t *testing.T) {
	e := NewEngine()
	cols := companyColumns()
	w := Window{Sort: Sort{Key: "company", Direction: Asc}, RowsPerPage: 3}

	res := e.Query(companies(), cols, w)
	cells := e.Cells(res, cols)
	if len(cells) != 3 || len(cells[0]) != 3 {
		t.Fatalf("Expected 3x3 cells, got %d rows", len(cells))
	}

	// three Acme rows open the page
	if cells[0][0].Span != 3 || cells[0][0].Value != "Acme" {
		t.Errorf("Expected Acme spanning 3, got %+v", cells[0][0])
	}
	if cells[1][0].Span != 0 || cells[1][0].Value != nil {
		t.Errorf("Expected a covered cell, got %+v", cells[1][0])
	}
	if cells[0][2].Value != "100.00" {
		t.Errorf("Expected 100.00, got %v", cells[0][2].Value)
	}
	if cells[2][1].Key != "email" || cells[2][1].Value != "eve@acme.test" {
		t.Errorf("Expected eve's email, got %+v", cells[2][1])
	}
}

func TestEngine_Export(t *testing.T) {
	e := NewEngine()
	w := Window{
		Sort:          Sort{Key: "balance", Direction: Desc},
		ActiveFilters: []ActiveFilter{{Path: "company", Operator: OpEqual, Type: TypeString, Value: "acme"}},
		RowsPerPage:   1,
	}

	out := e.Export(companies(), companyColumns(), w)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected the header and every Acme row regardless of paging, got:\n%s", out)
	}
	if lines[0] != `"Company","Email","Balance (535)"` {
		t.Errorf("Expected titles over the full dataset, got %s", lines[0])
	}
	if lines[1] != `"Acme","ada@acme.test","100.00"` {
		t.Errorf("Expected the largest Acme balance first, got %s", lines[1])
	}
}

func TestEngine_Headers(t *testing.T) {
	headers := NewEngine().Headers(companies(), companyColumns())
	if len(headers) != 3 {
		t.Fatalf("Expected 3 headers, got %d", len(headers))
	}
	if headers[0].Group != "" || !headers[0].Sortable {
		t.Errorf("Expected an ungrouped sortable company header, got %+v", headers[0])
	}
	if headers[1].Group != "contact" || headers[1].GroupTitle != "Contact" || headers[1].FilterPath != "email" {
		t.Errorf("Expected email in the contact group, got %+v", headers[1])
	}
	if headers[2].Title != "Balance (535)" || headers[2].FilterType != TypeNumber || headers[2].Sortable {
		t.Errorf("Expected the balance total header, got %+v", headers[2])
	}
}

func TestAggregate(t *testing.T) {
	data := []Record{{"v": 10}, {"v": "20"}, {"v": nil}, {"v": "x"}, {"v": 30.5}}
	cases := map[string]float64{
		"SUM":   60.5,
		"avg":   60.5 / 3,
		"COUNT": 4,
		"MIN":   10,
		"MAX":   30.5,
		"":      60.5,
	}
	for fn, want := range cases {
		if got := Aggregate(data, "v", fn); got != want {
			t.Errorf("%s: Expected %v, got %v", fn, want, got)
		}
	}
}

func TestFilterChoices(t *testing.T) {
	got := FilterChoices(companies(), "company")
	want := []LOVItem{
		{Value: "Acme", Label: "Acme", Count: 3},
		{Value: "Globex", Label: "Globex", Count: 1},
		{Value: "Initech", Label: "Initech", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	nums := FilterChoices([]Record{{"n": 10}, {"n": 9}, {"n": nil}, {"n": 10}}, "n")
	if len(nums) != 2 || nums[0].Label != "9" || nums[1].Count != 2 {
		t.Errorf("Expected 9 then 10 (x2), got %v", nums)
	}
}

func TestSelection(t *testing.T) {
	rows := rowsOf(companies())
	sel := Selection{}

	sel.Toggle("a2")
	if got := sel.Records(rows); len(got) != 1 || got[0]["id"] != "a2" {
		t.Errorf("Expected a2 selected, got %v", got)
	}
	sel.Toggle("a2")
	if len(sel) != 0 {
		t.Errorf("Expected toggling twice to clear, got %v", sel)
	}

	sel.SelectAll(rows)
	if len(sel.Records(rows)) != len(rows) {
		t.Errorf("Expected every row selected, got %v", sel)
	}
	if !sel["3"] {
		t.Error("Expected the positional id of the id-less record")
	}
	sel.SelectAll(rows)
	if len(sel) != 0 {
		t.Errorf("Expected select all on a full selection to clear, got %v", sel)
	}
}

func TestWindowState(t *testing.T) {
	w := Window{
		Sort:          Sort{Key: "email", Direction: Desc},
		ActiveFilters: []ActiveFilter{{ID: "f1", Path: "balance", Operator: OpGreater, Value: 50.0}},
		Page:          3,
		RowsPerPage:   25,
	}

	st := w.State()
	if st.Skip != 75 || st.Limit != 25 || st.SortKey != "email" || st.SortDirection != Desc {
		t.Errorf("Unexpected state %+v", st)
	}

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}
	var back State
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if got := back.Window(); !reflect.DeepEqual(got, w) {
		t.Errorf("Expected %+v, got %+v", w, got)
	}

	if got := (Window{}).State(); got.ColumnFilters == nil {
		t.Error("Expected an empty filter list rather than nil")
	}
}
