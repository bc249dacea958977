// Package csvtable reads and writes company tables as CSV
// Dumps and shard files share the format: one header row, comma separated,
// UTF-8 with an optional BOM
package csvtable

import (
	"bufio"
	"encoding/csv"
	stderrs "errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"brreg/internal/core/company"
	perr "brreg/internal/platform/errors"
)

// ErrNoHeader is returned for empty input
var ErrNoHeader = perr.Validationf("missing header")

func newReader(r io.Reader) *csv.Reader {
	br := stripUTF8BOM(bufio.NewReaderSize(r, 64<<10))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false
	return cr
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func readHeader(r *csv.Reader) ([]string, error) {
	h, err := r.Read()
	if err != nil {
		if stderrs.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "read header")
	}
	for i := range h {
		h[i] = strings.TrimSpace(h[i])
		if !utf8.ValidString(h[i]) {
			return nil, perr.Validationf("invalid header encoding in column %d", i+1)
		}
	}
	return h, nil
}

// Decode reads a whole table; short rows are padded and long rows truncated
func Decode(r io.Reader) (*company.Table, error) {
	cr := newReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	t := company.NewTable(header)
	for {
		rec, err := cr.Read()
		if stderrs.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "read row %d", t.Len()+2)
		}
		t.Append(rec)
	}
	return t, nil
}

// DecodeColumn reads only the values of col; ok is false when the header lacks it
func DecodeColumn(r io.Reader, col string) (values []string, ok bool, err error) {
	cr := newReader(r)
	cr.ReuseRecord = true
	header, err := readHeader(cr)
	if err != nil {
		return nil, false, err
	}
	idx := -1
	for i, h := range header {
		if h == col {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false, nil
	}
	for {
		rec, err := cr.Read()
		if stderrs.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, true, perr.Wrapf(err, perr.ErrorCodeValidation, "read row %d", len(values)+2)
		}
		if idx < len(rec) {
			values = append(values, rec[idx])
		} else {
			values = append(values, "")
		}
	}
	return values, true, nil
}

// Count returns the number of data rows without keeping them
func Count(r io.Reader) (int, error) {
	cr := newReader(r)
	cr.ReuseRecord = true
	if _, err := readHeader(cr); err != nil {
		return 0, err
	}
	n := 0
	for {
		_, err := cr.Read()
		if stderrs.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, perr.Wrapf(err, perr.ErrorCodeValidation, "read row %d", n+2)
		}
		n++
	}
}

// Encode writes header and rows; line endings are \n
func Encode(w io.Writer, t *company.Table) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	cw := csv.NewWriter(bw)
	if err := cw.Write(t.Header); err != nil {
		return perr.IOf(err, "write header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return perr.IOf(err, "write rows")
	}
	if err := bw.Flush(); err != nil {
		return perr.IOf(err, "flush")
	}
	return nil
}

// ReadFile decodes a dump from the local filesystem
// A missing file is a not-found error carrying a hint for the operator
func ReadFile(path string) (*company.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrs.Is(err, fs.ErrNotExist) {
			return nil, perr.WithHints(
				perr.NotFoundf("%s not found", path),
				"download the Brønnøysundregistrene dump and save it as "+path,
				"or pass the dump path as the first argument",
			)
		}
		return nil, perr.IOf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	t, err := Decode(f)
	if err != nil {
		return nil, perr.WithOp(err, "read "+path)
	}
	return t, nil
}
