package gridengine

// Page returns the window [page*limit, page*limit+limit). A limit of zero or less returns
// every record; a page past the end returns an empty slice.
func Page(records []Record, limit, page int) []Record {
	return window(records, limit, page)
}

func window[T any](items []T, limit, page int) []T {
	if limit <= 0 {
		return items
	}
	if page < 0 {
		return []T{}
	}
	start := page * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// PageCount is the number of pages needed to show total rows.
func PageCount(total, limit int) int {
	if limit <= 0 {
		if total > 0 {
			return 1
		}
		return 0
	}
	return (total + limit - 1) / limit
}
