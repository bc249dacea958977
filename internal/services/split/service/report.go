package service

import (
	"bytes"
	"io"
	"strings"

	dom "brreg/internal/services/split/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteReport prints the operator summary of a split run
func WriteReport(w io.Writer, location string, r dom.Result) error {
	var b bytes.Buffer
	p := message.NewPrinter(language.English)

	p.Fprintf(&b, "Processing %d companies\n", r.Read)
	if len(r.Checked) > 0 {
		p.Fprintf(&b, "Filtered out %d flagged companies (%s)\n", r.Dropped, strings.Join(r.Checked, ", "))
	}
	if r.Filtered > 0 {
		p.Fprintf(&b, "Skipped %d companies outside the selected organisation forms\n", r.Filtered)
	}
	p.Fprintf(&b, "Found %d organisation forms: %s\n\n", len(r.Forms), strings.Join(r.Forms, ", "))
	for _, s := range r.Shards {
		p.Fprintf(&b, "  ✓ %s: %d companies\n", s.Path(), s.Rows)
	}
	p.Fprintf(&b, "\nSuccessfully created %d CSV files in %s\n", r.Files, location)

	_, err := w.Write(b.Bytes())
	return err
}
