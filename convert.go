package gridengine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Convert normalizes a value to the canonical type, with dates at UTC midnight.
// nil stays nil whatever the target type.
func Convert(raw interface{}, typ Type) interface{} {
	return ConvertIn(raw, typ, time.UTC)
}

// ConvertIn is Convert with dates normalized to midnight in loc.
//
//	string:  strings pass through, anything else is formatted
//	number:  float64; non numeric input becomes NaN
//	boolean: bools pass through, otherwise true only for the string "true"
//	date:    time.Time at start of day; unparseable input becomes nil
//
// The empty type leaves the value untouched.
func ConvertIn(raw interface{}, typ Type, loc *time.Location) interface{} {
	if raw == nil {
		return nil
	}
	switch typ {
	case TypeString:
		return toString(raw)
	case TypeNumber:
		return toNumber(raw)
	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v
		case string:
			return v == "true"
		}
		return false
	case TypeDate:
		t, ok := toTime(raw, loc)
		if !ok {
			return nil
		}
		return startOfDay(t, loc)
	}
	return raw
}

func toString(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.Format(time.RFC3339)
	case []byte:
		return string(v)
	}
	return fmt.Sprint(raw)
}

func toNumber(raw interface{}) float64 {
	if f, ok := asFloat(raw); ok {
		return f
	}
	switch v := raw.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// asFloat converts Go numeric kinds only.
func asFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func toTime(raw interface{}, loc *time.Location) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		if strings.TrimSpace(v) == "" {
			return time.Time{}, false
		}
		t, err := dateparse.ParseIn(v, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if f, ok := asFloat(raw); ok && !math.IsNaN(f) {
		// epoch milliseconds
		return time.UnixMilli(int64(f)).In(loc), true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return true
	}
	return false
}
