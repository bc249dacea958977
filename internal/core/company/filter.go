package company

import "strings"

// DefaultExcludeFlags are the flag columns that drop a row when true
var DefaultExcludeFlags = []string{ColBankrupt}

// ParseFlag reads a boolean-like registry cell
// true, 1, yes, ja, j, y, t (any case, trimmed) are true; anything else,
// including empty and unparseable values, is false
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "ja", "j", "y", "t":
		return true
	default:
		return false
	}
}

// FilterFlagged drops rows where any present flag column parses true
// It returns the dropped count and the columns that were actually checked
func FilterFlagged(t *Table, cols []string) (dropped int, checked []string) {
	var idx []int
	for _, c := range cols {
		if i := t.Index(c); i >= 0 {
			idx = append(idx, i)
			checked = append(checked, c)
		}
	}
	if len(idx) == 0 {
		return 0, nil
	}
	dropped = t.keep(func(r []string) bool {
		for _, i := range idx {
			if ParseFlag(r[i]) {
				return false
			}
		}
		return true
	})
	return dropped, checked
}

// FilterForms keeps rows whose form code is in allow; an empty allow-list keeps all
func FilterForms(t *Table, allow []string) int {
	if len(allow) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(allow))
	for _, f := range allow {
		if strings.TrimSpace(f) != "" {
			set[FormCode(f)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return 0
	}
	fi := t.Index(ColForm)
	if fi < 0 {
		return 0
	}
	return t.keep(func(r []string) bool {
		_, ok := set[FormCode(r[fi])]
		return ok
	})
}
