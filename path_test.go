package gridengine

import (
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	rec := Record{
		"name": "Ada",
		"owner": map[string]interface{}{
			"address": map[string]interface{}{"city": "Budapest"},
		},
		"items": []interface{}{
			map[string]interface{}{"sku": "A-1"},
			map[string]interface{}{"sku": "B-2"},
		},
		"tags":    []string{"x", "y"},
		"nothing": nil,
	}

	cases := []struct {
		path string
		want interface{}
	}{
		{"name", "Ada"},
		{"owner.address.city", "Budapest"},
		{"items.1.sku", "B-2"},
		{"items[0].sku", "A-1"},
		{"tags.1", "y"},
		{"owner.missing.city", nil},
		{"items.7.sku", nil},
		{"name.first", nil},
		{"nothing.deeper", nil},
		{"", nil},
	}
	for _, c := range cases {
		if got := Get(rec, c.path); got != c.want {
			t.Errorf("Get(%q): Expected %v, got %v", c.path, c.want, got)
		}
	}
}

func TestLookup(t *testing.T) {
	rec := Record{"present": nil}
	if _, ok := Lookup(rec, "present"); !ok {
		t.Error("Expected a nil value to be found")
	}
	if _, ok := Lookup(rec, "absent"); ok {
		t.Error("Expected a missing key to be reported")
	}
	if v, ok := Lookup(nil, "a"); ok || v != nil {
		t.Errorf("Expected nothing from a nil record, got %v", v)
	}
}

func TestGet_Struct(t *testing.T) {
	type address struct{ City string }
	rec := Record{"addr": &address{City: "Pecs"}}
	if got := Get(rec, "addr.City"); got != "Pecs" {
		t.Errorf("Expected Pecs, got %v", got)
	}
}

func TestConvert(t *testing.T) {
	if got := Convert(nil, TypeNumber); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
	if got := Convert(12, TypeString); got != "12" {
		t.Errorf("Expected \"12\", got %v", got)
	}
	if got := Convert(12.5, TypeString); got != "12.5" {
		t.Errorf("Expected \"12.5\", got %v", got)
	}
	if got := Convert("3.25", TypeNumber); got != 3.25 {
		t.Errorf("Expected 3.25, got %v", got)
	}
	if got := Convert("abc", TypeNumber); !isNull(got) {
		t.Errorf("Expected NaN, got %v", got)
	}
	if got := Convert(true, TypeNumber); got != 1.0 {
		t.Errorf("Expected 1, got %v", got)
	}
	if got := Convert("true", TypeBoolean); got != true {
		t.Errorf("Expected true, got %v", got)
	}
	if got := Convert("yes", TypeBoolean); got != false {
		t.Errorf("Expected false, got %v", got)
	}
	if got := Convert(1, TypeBoolean); got != false {
		t.Errorf("Expected false for a number, got %v", got)
	}
	if got := Convert("garbage", TypeDate); got != nil {
		t.Errorf("Expected nil for an unparseable date, got %v", got)
	}
	if got := Convert(map[string]interface{}{"a": 1}, ""); got == nil {
		t.Error("Expected the raw value for the empty type")
	}
}

func TestConvert_Date(t *testing.T) {
	want := time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, raw := range []interface{}{
		"2022-01-02",
		"2022-01-02T18:30:00Z",
		"01/02/2022",
		time.Date(2022, 1, 2, 7, 0, 0, 0, time.UTC),
		want.Add(5*time.Hour).UnixMilli(),
	} {
		got, ok := Convert(raw, TypeDate).(time.Time)
		if !ok || !got.Equal(want) {
			t.Errorf("Convert(%v): Expected %v, got %v", raw, want, got)
		}
	}
}
