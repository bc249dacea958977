package company

// Merge returns existing followed by additions
// The header is the existing header plus any addition columns not yet present;
// cells missing on either side are empty
func Merge(existing, additions *Table) *Table {
	if existing == nil {
		existing = NewTable(nil)
	}
	if additions == nil || len(additions.Header) == 0 {
		out := NewTable(existing.Header)
		out.Append(existing.Rows...)
		return out
	}

	header := append([]string(nil), existing.Header...)
	for _, h := range additions.Header {
		if !existing.Has(h) {
			header = append(header, h)
		}
	}
	out := NewTable(header)
	out.Append(existing.Rows...)

	// position of each output column in the additions table
	src := make([]int, len(header))
	for i, h := range header {
		src[i] = additions.Index(h)
	}
	for _, r := range additions.Rows {
		row := make([]string, len(header))
		for i, j := range src {
			if j >= 0 && j < len(r) {
				row[i] = r[j]
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
