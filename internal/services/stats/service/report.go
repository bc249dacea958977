package service

import (
	"bytes"
	"io"
	"strings"

	dom "brreg/internal/services/stats/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rule = strings.Repeat("=", 70)

// WriteReport prints the text report: per form totals, the top shards and the grand total
func WriteReport(w io.Writer, r dom.Report) error {
	var b bytes.Buffer
	p := message.NewPrinter(language.English)

	p.Fprintf(&b, "%s\nBRØNNØYSUNDREGISTRENE COMPANY DATABASE STATISTICS\n%s\n", rule, rule)
	for _, f := range r.Forms {
		p.Fprintf(&b, "\n%s: %d companies across %d CSV files\n", f.Form, f.Total, f.Files)
		for _, s := range f.Top {
			p.Fprintf(&b, "  • %-8s: %8d companies (%5.1f%%)\n", s.Key, s.Rows, s.Pct)
		}
	}
	p.Fprintf(&b, "\n%s\nTOTAL: %d companies in %d CSV files\n%s\n", rule, r.Total, r.Files, rule)
	if r.Unreadable > 0 {
		p.Fprintf(&b, "(%d unreadable CSV files skipped)\n", r.Unreadable)
	}

	_, err := w.Write(b.Bytes())
	return err
}
