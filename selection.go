package gridengine

// Selection tracks selected rows by row ID.
type Selection map[string]bool

// Toggle flips the selection of one row.
func (s Selection) Toggle(id string) {
	if s[id] {
		delete(s, id)
		return
	}
	s[id] = true
}

// SelectAll selects every given row, or clears them when all are already selected.
func (s Selection) SelectAll(rows []Row) {
	all := len(rows) > 0
	for _, r := range rows {
		if !s[r.ID] {
			all = false
			break
		}
	}
	for _, r := range rows {
		if all {
			delete(s, r.ID)
		} else {
			s[r.ID] = true
		}
	}
}

// Records returns the selected records among rows, in row order.
func (s Selection) Records(rows []Row) []Record {
	var out []Record
	for _, r := range rows {
		if s[r.ID] {
			out = append(out, r.Record)
		}
	}
	return out
}
