package service

import (
	"bytes"
	"io"
	"strings"

	dom "brreg/internal/services/export/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteReport prints the operator summary of an export run
func WriteReport(w io.Writer, r dom.Result) error {
	var b bytes.Buffer
	p := message.NewPrinter(language.English)

	p.Fprintf(&b, "Exported %d companies from %d CSV files to %s table %s\n", r.Rows, r.Shards, r.Sink, r.Table)
	p.Fprintf(&b, "Organisation forms: %s\n", strings.Join(r.Forms, ", "))
	if r.Invalid > 0 {
		p.Fprintf(&b, "Skipped %d invalid rows\n", r.Invalid)
	}
	if r.Unreadable > 0 {
		p.Fprintf(&b, "Skipped %d unreadable CSV files\n", r.Unreadable)
	}

	_, err := w.Write(b.Bytes())
	return err
}
