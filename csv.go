package gridengine

import (
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ObjectPlaceholder replaces structured cell values in CSV output.
const ObjectPlaceholder = "[object]"

// ToCSV serializes every record through the flattened columns. Numbers are written bare,
// everything else quoted; nil becomes an empty field.
func ToCSV(records []Record, cols Structure) string {
	return newResolver(defaultLocale, DefaultCurrency, nil).csv(rowsOf(records), records, cols)
}

func (r *resolver) csv(rows []Row, all []Record, cols Structure) string {
	flat := cols.Flatten()
	lines := make([]string, 0, len(rows)+1)

	header := make([]string, len(flat))
	for i, c := range flat {
		header[i] = quote(c.ResolveTitle(all))
	}
	lines = append(lines, strings.Join(header, ","))

	cells := make([]string, len(flat))
	for _, row := range rows {
		for i, c := range flat {
			cells[i] = csvField(r.resolve(c, row.Record, row.ID, row.Index, true))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func csvField(v interface{}) string {
	if v == nil {
		return ""
	}
	if f, ok := asFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	switch x := v.(type) {
	case string:
		return quote(x)
	case bool:
		return quote(strconv.FormatBool(x))
	case time.Time:
		return quote(x.Format(time.RFC3339))
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer, reflect.Func, reflect.Chan, reflect.Interface:
		return quote(ObjectPlaceholder)
	}
	return quote(toString(v))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
