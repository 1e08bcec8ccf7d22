// Package natural orders arbitrary cell values the way people expect to read them:
// numbers numerically, dates chronologically and text by locale collation with digit
// runs compared by value ("item 2" before "item 10").
package natural

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order compares values. It is not safe for concurrent use.
type Order struct {
	col *collate.Collator
}

// New creates an Order collating text for the given locale.
func New(tag language.Tag) *Order {
	return &Order{col: collate.New(tag, collate.Numeric)}
}

// Compare returns -1, 0 or 1. Missing values (nil, NaN) sort after everything else.
func (o *Order) Compare(a, b interface{}) int {
	an, bn := missing(a), missing(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}

	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmpFloat(fa, fb)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			}
			return 1
		}
	}
	return o.col.CompareString(text(a), text(b))
}

// Strings compares two strings by collation only.
func (o *Order) Strings(a, b string) int {
	return o.col.CompareString(a, b)
}

func missing(v interface{}) bool {
	if v == nil {
		return true
	}
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}

func number(v interface{}) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func text(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
