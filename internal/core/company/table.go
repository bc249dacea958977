// Package company models registry dump rows and the table operations the
// partitioner, merger and exporter share
package company

// Table is an ordered header plus string rows
// Every row has exactly len(Header) cells; constructors pad short rows with
// empty cells and truncate long ones
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a table, conforming rows to the header width
func NewTable(header []string, rows ...[]string) *Table {
	t := &Table{Header: append([]string(nil), header...)}
	t.Append(rows...)
	return t
}

// Len returns the number of data rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of col in the header, or -1
func (t *Table) Index(col string) int {
	if t.index == nil || len(t.index) != len(t.Header) {
		t.index = make(map[string]int, len(t.Header))
		for i, h := range t.Header {
			if _, dup := t.index[h]; !dup {
				t.index[h] = i
			}
		}
	}
	if i, ok := t.index[col]; ok {
		return i
	}
	return -1
}

// Has reports whether the header contains col
func (t *Table) Has(col string) bool { return t.Index(col) >= 0 }

// Get returns the cell of row at col, "" when the column is absent
func (t *Table) Get(row []string, col string) string {
	i := t.Index(col)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Set writes v into row at col; absent columns are ignored
func (t *Table) Set(row []string, col, v string) {
	if i := t.Index(col); i >= 0 && i < len(row) {
		row[i] = v
	}
}

// Append adds rows, conforming each to the header width
func (t *Table) Append(rows ...[]string) {
	w := len(t.Header)
	for _, r := range rows {
		switch {
		case len(r) == w:
			t.Rows = append(t.Rows, r)
		case len(r) > w:
			t.Rows = append(t.Rows, r[:w:w])
		default:
			out := make([]string, w)
			copy(out, r)
			t.Rows = append(t.Rows, out)
		}
	}
}

// Empty returns a table with the same header and no rows
func (t *Table) Empty() *Table { return NewTable(t.Header) }

// Column returns all values of col in row order; nil when absent
func (t *Table) Column(col string) []string {
	i := t.Index(col)
	if i < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r[i])
	}
	return out
}

// keep retains rows for which fn returns true and returns how many were dropped
func (t *Table) keep(fn func(row []string) bool) int {
	kept := t.Rows[:0]
	for _, r := range t.Rows {
		if fn(r) {
			kept = append(kept, r)
		}
	}
	dropped := len(t.Rows) - len(kept)
	for i := len(kept); i < len(t.Rows); i++ {
		t.Rows[i] = nil
	}
	t.Rows = kept
	return dropped
}
