package gridengine

import "strconv"

// RowID identifies a row by its "id" field, then "_id", then its position.
func RowID(rec Record, index int) string {
	if id := idString(rec["id"]); id != "" {
		return id
	}
	if id := idString(rec["_id"]); id != "" {
		return id
	}
	return strconv.Itoa(index)
}

func idString(v interface{}) string {
	if falsy(v) {
		return ""
	}
	return toString(v)
}
