package company

import (
	"strings"

	"brreg/internal/core/normalize"
	perr "brreg/internal/platform/errors"
)

// Dump column names
const (
	ColNumber     = "organisasjonsnummer"
	ColName       = "navn"
	ColForm       = "organisasjonsform.kode"
	ColBankrupt   = "konkurs"
	ColEmployees  = "antallAnsatte"
	ColWebsite    = "hjemmeside"
	ColEmail      = "epostadresse"
	ColPhone      = "telefon"
	ColMobile     = "mobil"
	ColInGroup    = "erIKonsern"
	ColRegistered = "registrertIForetaksregisteret"
)

// Unknown is the sentinel written into empty key cells
const Unknown = "UNKNOWN"

// Required column sets per tool
var (
	SplitColumns = []string{ColForm, ColName}
	MergeColumns = []string{ColForm, ColNumber, ColName}
)

// RequireColumns fails with a config error listing every missing column
func RequireColumns(t *Table, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	err := perr.Configf("required columns missing: %s", strings.Join(missing, ", "))
	return perr.WithField(perr.WithHints(err, missing...), missing[0])
}

// Normalize cleans key cells in place
// Empty form codes and names become Unknown, other form and name cells are kept
// verbatim; registry numbers are coerced with CanonicalNumber
func Normalize(t *Table) {
	fi, ni, oi := t.Index(ColForm), t.Index(ColName), t.Index(ColNumber)
	for _, r := range t.Rows {
		if fi >= 0 {
			if normalize.Field(r[fi]) == "" {
				r[fi] = Unknown
			}
		}
		if ni >= 0 && normalize.Field(r[ni]) == "" {
			r[ni] = Unknown
		}
		if oi >= 0 {
			r[oi] = CanonicalNumber(r[oi])
		}
	}
}

// FormCode returns the comparable form of an organisation-form cell
// ("as " and "AS" are the same form); empty cells are Unknown
func FormCode(s string) string {
	if v := normalize.Field(s); v != "" {
		return strings.ToUpper(v)
	}
	return Unknown
}

// CanonicalNumber returns the string form of a registry number
// Cells are trimmed and a float artefact suffix ".0" is stripped
func CanonicalNumber(s string) string {
	s = normalize.Field(s)
	if strings.HasSuffix(s, ".0") && len(s) > 2 && isDigits(s[:len(s)-2]) {
		s = s[:len(s)-2]
	}
	return s
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
