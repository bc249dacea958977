package company

import (
	"strconv"

	"brreg/internal/core/normalize"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/validate"
)

// Company is the typed view of one registry row used by the exporter
// Optional text fields that are empty in the dump hold Unknown
type Company struct {
	Number     string `csv:"organisasjonsnummer" validate:"required,numeric"`
	Name       string `csv:"navn" validate:"required"`
	Form       string `csv:"organisasjonsform.kode" validate:"required,formcode"`
	Bankrupt   bool   `csv:"konkurs"`
	Employees  *int   `csv:"antallAnsatte" validate:"omitempty,gte=0"`
	Website    string `csv:"hjemmeside"`
	Email      string `csv:"epostadresse"`
	Phone      string `csv:"telefon"`
	Mobile     string `csv:"mobil"`
	InGroup    bool   `csv:"erIKonsern"`
	Registered bool   `csv:"registrertIForetaksregisteret"`
}

// FromRow converts a table row into a Company
func FromRow(t *Table, row []string) Company {
	c := Company{
		Number:     CanonicalNumber(t.Get(row, ColNumber)),
		Name:       orUnknown(t.Get(row, ColName)),
		Form:       FormCode(t.Get(row, ColForm)),
		Bankrupt:   ParseFlag(t.Get(row, ColBankrupt)),
		Website:    orUnknown(t.Get(row, ColWebsite)),
		Email:      orUnknown(t.Get(row, ColEmail)),
		Phone:      orUnknown(t.Get(row, ColPhone)),
		Mobile:     orUnknown(t.Get(row, ColMobile)),
		InGroup:    ParseFlag(t.Get(row, ColInGroup)),
		Registered: ParseFlag(t.Get(row, ColRegistered)),
	}
	if n, ok := parseCount(t.Get(row, ColEmployees)); ok {
		c.Employees = &n
	}
	return c
}

// Validate checks the row is loadable
func (c Company) Validate() error {
	if err := validate.Struct(c, perr.ErrorCodeValidation); err != nil {
		return perr.WithOp(err, "company.validate")
	}
	return nil
}

func orUnknown(s string) string {
	if v := normalize.Field(s); v != "" {
		return v
	}
	return Unknown
}

// parseCount accepts "12" and the float form "12.0"
func parseCount(s string) (int, bool) {
	s = normalize.Field(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}
