// Package repo implements the export sinks on the store seams
package repo

import (
	"fmt"
	"strings"

	"brreg/internal/core/company"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/store"
	dom "brreg/internal/services/export/domain"
)

// Columns of the companies table in insert order
var Columns = []string{
	"organisasjonsnummer",
	"navn",
	"organisasjonsform_kode",
	"konkurs",
	"antall_ansatte",
	"hjemmeside",
	"epostadresse",
	"telefon",
	"mobil",
	"er_i_konsern",
	"registrert_i_foretaksregisteret",
}

// Values returns c in Columns order; an unknown employee count is a typed nil
func Values(c company.Company) []any {
	var employees *int64
	if c.Employees != nil {
		n := int64(*c.Employees)
		employees = &n
	}
	return []any{
		c.Number,
		c.Name,
		c.Form,
		c.Bankrupt,
		employees,
		c.Website,
		c.Email,
		c.Phone,
		c.Mobile,
		c.InGroup,
		c.Registered,
	}
}

func rows(xs []company.Company) [][]any {
	out := make([][]any, len(xs))
	for i, c := range xs {
		out[i] = Values(c)
	}
	return out
}

// ValidTable reports whether name is a plain lowercase sql identifier
func ValidTable(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// updates renders "col = <prefix>.col" for every non key column
func updates(prefix string) string {
	set := make([]string, 0, len(Columns)-1)
	for _, c := range Columns[1:] {
		set = append(set, fmt.Sprintf("%s = %s.%s", c, prefix, c))
	}
	return strings.Join(set, ", ")
}

// New returns the sink for driver on the opened store
func New(driver string, st *store.Store, table string) (dom.Sink, error) {
	if !ValidTable(table) {
		return nil, perr.WithField(perr.Configf("invalid export table name %q", table), "EXPORT_TABLE")
	}
	if st == nil {
		return nil, perr.Internalf("export: nil store")
	}
	switch driver {
	case "pg":
		if st.PG == nil {
			return nil, perr.Configf("export: postgres is not configured")
		}
		return NewPG(st.PG, table), nil
	case "ch":
		if st.CH == nil {
			return nil, perr.Configf("export: clickhouse is not configured")
		}
		return NewCH(st.CH, table), nil
	case "sqlite":
		if st.Lite == nil {
			return nil, perr.Configf("export: sqlite is not configured")
		}
		return NewSQLite(st.Lite, table), nil
	default:
		return nil, perr.WithHints(perr.Configf("unknown export driver %q", driver), "pg", "ch", "sqlite")
	}
}
