// Package renderers holds the named render functions catalogs may reference.
package renderers

import (
	"strconv"
	"strings"

	"github.com/gnemet/gridengine"
)

// Registry maps catalog render names to functions.
var Registry = map[string]gridengine.RenderFunc{
	"active":    Active,
	"fullName":  FullName,
	"rowNumber": RowNumber,
}

// Active shows isActive as a label; exports keep the boolean.
func Active(rec gridengine.Record, isExport bool, rowID string, rowIndex int) interface{} {
	active, _ := gridengine.Get(rec, "isActive").(bool)
	switch {
	case isExport:
		return active
	case active:
		return "Active"
	default:
		return "Inactive"
	}
}

// FullName joins name.first and name.last.
func FullName(rec gridengine.Record, isExport bool, rowID string, rowIndex int) interface{} {
	var parts []string
	for _, p := range []string{"name.first", "name.last"} {
		if s, ok := gridengine.Get(rec, p).(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return strings.Join(parts, " ")
}

// RowNumber is the 1-based position of the record in the unfiltered collection.
func RowNumber(rec gridengine.Record, isExport bool, rowID string, rowIndex int) interface{} {
	if isExport {
		return rowIndex + 1
	}
	return strconv.Itoa(rowIndex + 1)
}
