package gridengine

import (
	"reflect"
	"strconv"
	"strings"
)

// Get resolves a dot path against a record and returns nil when any segment is missing.
// A segment addresses a map key or a slice index: "owner.name", "items.0.sku", "items[0].sku".
func Get(rec Record, path string) interface{} {
	v, _ := Lookup(rec, path)
	return v
}

// Lookup is Get that also reports whether the path was found.
func Lookup(rec Record, path string) (interface{}, bool) {
	if rec == nil || path == "" {
		return nil, false
	}
	var current interface{} = rec
	for _, part := range splitPath(path) {
		next, ok := step(current, part)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// splitPath turns "a.b[1].c" into ["a", "b", "1", "c"].
func splitPath(path string) []string {
	parts := strings.Split(path, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		for {
			open := strings.IndexByte(p, '[')
			if open == -1 || !strings.HasSuffix(p, "]") {
				out = append(out, p)
				break
			}
			if open > 0 {
				out = append(out, p[:open])
			}
			end := strings.IndexByte(p[open:], ']') + open
			out = append(out, p[open+1:end])
			p = p[end+1:]
			if p == "" {
				break
			}
		}
	}
	return out
}

func step(current interface{}, part string) (interface{}, bool) {
	switch c := current.(type) {
	case map[string]interface{}:
		v, ok := c[part]
		return v, ok
	case []interface{}:
		i, ok := index(part, len(c))
		if !ok {
			return nil, false
		}
		return c[i], true
	case []map[string]interface{}:
		i, ok := index(part, len(c))
		if !ok {
			return nil, false
		}
		return c[i], true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(part).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		i, ok := index(part, rv.Len())
		if !ok {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		f := rv.FieldByName(part)
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}

func index(part string, n int) (int, bool) {
	i, err := strconv.Atoi(part)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
