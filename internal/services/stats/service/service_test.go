package service

import (
	"bytes"
	"context"
	"math"
	"reflect"
	"strings"
	"testing"

	"brreg/internal/adapters/shardtree"
	"brreg/internal/platform/blob"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/metrics"
	kit "brreg/internal/platform/testkit"
	dom "brreg/internal/services/stats/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/xuri/excelize/v2"
)

func shard(t *testing.T, m *blob.Memory, key string, rows int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("organisasjonsnummer,navn\n")
	for i := 0; i < rows; i++ {
		b.WriteString("1,x\n")
	}
	if err := m.Put(context.Background(), key, strings.NewReader(b.String())); err != nil {
		t.Fatalf("put %s: %v", key, err)
	}
}

func fixture(t *testing.T, top int) (*Service, *metrics.Metrics) {
	t.Helper()
	m := blob.NewMemory()
	shard(t, m, "AS/A.csv", 3)
	shard(t, m, "AS/B.csv", 1)
	shard(t, m, "AS/C.csv", 9)
	shard(t, m, "AS/OTHER.csv", 3)
	shard(t, m, "ENK/A.csv", 0)
	shard(t, m, "NUF/Z.csv", 1)
	m.FailGet = func(key string) bool { return key == "AS/C.csv" }
	met := metrics.New("brreg-stats")
	return New(shardtree.New(m), met, Config{Top: top}), met
}

func keys(xs []dom.ShardStat) []string {
	var out []string
	for _, x := range xs {
		out = append(out, x.Key)
	}
	return out
}

func TestStats_AllForms(t *testing.T) {
	svc, met := fixture(t, 2)
	rep, err := svc.Stats(context.Background(), "")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if rep.Total != 8 || rep.Files != 5 || rep.Unreadable != 1 || len(rep.Forms) != 3 {
		t.Fatalf("report = %+v", rep)
	}

	as := rep.Forms[0]
	if as.Form != "AS" || as.Total != 7 || as.Files != 4 || as.Readable != 3 {
		t.Fatalf("AS = %+v", as)
	}
	if got := keys(as.Shards); !reflect.DeepEqual(got, []string{"A", "OTHER", "B"}) {
		t.Fatalf("order = %v, want count desc then key", got)
	}
	if got := keys(as.Top); !reflect.DeepEqual(got, []string{"A", "OTHER"}) {
		t.Fatalf("top = %v", got)
	}
	if math.Abs(as.Top[0].Pct-300.0/7) > 1e-9 {
		t.Fatalf("pct = %v", as.Top[0].Pct)
	}

	enk := rep.Forms[1]
	if enk.Total != 0 || enk.Shards[0].Pct != 0 {
		t.Fatalf("empty form pct must be 0: %+v", enk)
	}

	if got := testutil.ToFloat64(met.ShardReadError); got != 1 {
		t.Fatalf("read errors = %v", got)
	}
	if got := testutil.ToFloat64(met.RowsRead); got != 8 {
		t.Fatalf("rows read = %v", got)
	}
}

func TestStats_DefaultTop(t *testing.T) {
	svc, _ := fixture(t, 0)
	if svc.Cfg.Top != DefaultTop {
		t.Fatalf("top = %d", svc.Cfg.Top)
	}
}

func TestStats_Filter(t *testing.T) {
	svc, _ := fixture(t, 5)
	rep, err := svc.Stats(context.Background(), " nuf ")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if rep.Filter != "NUF" || len(rep.Forms) != 1 || rep.Forms[0].Form != "NUF" || rep.Total != 1 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestStats_UnknownFilterListsForms(t *testing.T) {
	svc, _ := fixture(t, 5)
	_, err := svc.Stats(context.Background(), "xyz")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	kit.MustContain(t, err.Error(), `organisation form "XYZ" not found`)
	if got := perr.HintsOf(err); !reflect.DeepEqual(got, []string{"AS", "ENK", "NUF"}) {
		t.Fatalf("hints = %v", got)
	}
}

func TestStats_EmptyTree(t *testing.T) {
	svc := New(shardtree.New(blob.NewMemory()), nil, Config{})
	if _, err := svc.Stats(context.Background(), ""); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestNormalizeForm(t *testing.T) {
	cases := map[string]string{"": "", "  ": "", " as ": "AS", "a/s": "A_S"}
	for in, want := range cases {
		if got := NormalizeForm(in); got != want {
			t.Fatalf("NormalizeForm(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteReport(t *testing.T) {
	svc, _ := fixture(t, 5)
	rep, _ := svc.Stats(context.Background(), "")
	var b bytes.Buffer
	if err := WriteReport(&b, rep); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := b.String()
	kit.MustContain(t, out, "BRØNNØYSUNDREGISTRENE COMPANY DATABASE STATISTICS")
	kit.MustContain(t, out, "AS: 7 companies across 4 CSV files")
	kit.MustContain(t, out, "  • A       :")
	kit.MustContain(t, out, "42.9%")
	kit.MustContain(t, out, "TOTAL: 8 companies in 5 CSV files")
	kit.MustContain(t, out, "(1 unreadable CSV files skipped)")

	b.Reset()
	_ = WriteReport(&b, dom.Report{Total: 1234567, Files: 27})
	kit.MustContain(t, b.String(), "TOTAL: 1,234,567 companies in 27 CSV files")
}

func TestWriteReport_LetterShares(t *testing.T) {
	m := blob.NewMemory()
	shard(t, m, "AS/A.csv", 10)
	shard(t, m, "AS/B.csv", 5)
	shard(t, m, "AS/OTHER.csv", 2)
	svc := New(shardtree.New(m), nil, Config{Top: DefaultTop})

	rep, err := svc.Stats(context.Background(), "AS")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if rep.Total != 17 || keys(rep.Forms[0].Top)[0] != "A" {
		t.Fatalf("report = %+v", rep)
	}
	var b bytes.Buffer
	if err := WriteReport(&b, rep); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	out := b.String()
	kit.MustContain(t, out, "\nAS: 17 companies across 3 CSV files\n"+
		"  • A       :       10 companies ( 58.8%)\n"+
		"  • B       :        5 companies ( 29.4%)\n"+
		"  • OTHER   :        2 companies ( 11.8%)\n")
	kit.MustContain(t, out, "TOTAL: 17 companies in 3 CSV files")
}

func TestWriteXLSX(t *testing.T) {
	svc, _ := fixture(t, 5)
	rep, _ := svc.Stats(context.Background(), "")

	var b bytes.Buffer
	if err := WriteXLSX(&b, rep); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&b)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{SummarySheet, "AS", "ENK", "NUF"}) {
		t.Fatalf("sheets = %v", got)
	}
	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(summary) != 5 || summary[1][0] != "AS" || summary[1][1] != "7" || summary[4][0] != "TOTAL" || summary[4][1] != "8" {
		t.Fatalf("summary = %v", summary)
	}
	as, _ := f.GetRows("AS")
	if len(as) != 4 || as[1][0] != "A" || as[1][1] != "3" {
		t.Fatalf("AS sheet = %v", as)
	}
}

func TestSheetName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"AS", "AS"},
		{"A:B", "A_B"},
		{"[x]", "_x_"},
		{"summary", "_summary"},
		{strings.Repeat("X", 40), strings.Repeat("X", 31)},
	}
	for _, c := range cases {
		if got := SheetName(c.in); got != c.want {
			t.Fatalf("SheetName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
