package service

import (
	"bytes"
	"io"
	"strings"

	dom "brreg/internal/services/merge/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteReport prints the operator summary of a merge run
func WriteReport(w io.Writer, r dom.Result) error {
	var b bytes.Buffer
	p := message.NewPrinter(language.English)

	if len(r.Checked) > 0 {
		p.Fprintf(&b, "Filtered out %d flagged companies (%s)\n", r.Dropped, strings.Join(r.Checked, ", "))
	}
	p.Fprintf(&b, "Found %d existing companies\n", r.Existing)
	if r.Unreadable > 0 {
		p.Fprintf(&b, "Skipped %d unreadable CSV files\n", r.Unreadable)
	}
	if r.SkippedEmpty > 0 {
		p.Fprintf(&b, "Skipped %d rows without organisasjonsnummer\n", r.SkippedEmpty)
	}
	p.Fprintf(&b, "\n%d new companies to add\n", r.Candidates)
	if r.Candidates == 0 {
		p.Fprintf(&b, "No new companies to merge!\n")
	} else {
		for _, s := range r.Shards {
			p.Fprintf(&b, "  ✓ %s: +%d companies\n", s.Path(), s.Rows)
		}
		p.Fprintf(&b, "\nSuccessfully added %d new companies!\n", r.Added)
	}

	_, err := w.Write(b.Bytes())
	return err
}
