package metrics

import (
	stderrs "errors"
	"os"
	"path/filepath"
	"testing"

	perr "brreg/internal/platform/errors"
	kit "brreg/internal/platform/testkit"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAndFlush(t *testing.T) {
	m := New("brreg-split")
	if m.Tool() != "brreg-split" {
		t.Fatalf("tool = %q", m.Tool())
	}
	m.RowsRead.Add(10)
	m.Dropped("bankrupt", 2)
	m.Dropped("bankrupt", 0)
	m.Dropped("form", 1)
	m.RowsWritten.Add(7)
	m.ShardsWritten.Inc()
	m.Finish(nil)

	if got := testutil.ToFloat64(m.RowsRead); got != 10 {
		t.Fatalf("rows read = %v", got)
	}
	if got := testutil.ToFloat64(m.RowsDropped.WithLabelValues("bankrupt")); got != 2 {
		t.Fatalf("dropped bankrupt = %v", got)
	}
	if testutil.ToFloat64(m.LastSuccess) == 0 {
		t.Fatalf("last success should be set")
	}

	path := filepath.Join(t.TempDir(), "brreg.prom")
	if err := m.Flush(path); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(b)
	kit.MustContain(t, out, `brreg_rows_read_total{tool="brreg-split"} 10`)
	kit.MustContain(t, out, `brreg_rows_dropped_total{reason="bankrupt",tool="brreg-split"} 2`)
	kit.MustContain(t, out, "brreg_run_duration_seconds")
}

func TestFinishWithErrorSkipsSuccess(t *testing.T) {
	m := New("brreg-merge")
	m.Finish(stderrs.New("boom"))
	if testutil.ToFloat64(m.LastSuccess) != 0 {
		t.Fatalf("last success should stay 0 on failure")
	}
}

func TestFlush_NoPathAndNil(t *testing.T) {
	var nilM *Metrics
	if err := nilM.Flush("x"); err != nil {
		t.Fatalf("nil Flush: %v", err)
	}
	nilM.Finish(nil)
	nilM.Dropped("x", 1)
	if err := New("t").Flush(""); err != nil {
		t.Fatalf("empty path: %v", err)
	}
}

func TestFlush_WriteError(t *testing.T) {
	kit.Swap(t, &writeTextfile, func(string, prometheus.Gatherer) error { return stderrs.New("disk full") })
	if err := New("t").Flush("/x"); !perr.IsCode(err, perr.ErrorCodeIO) {
		t.Fatalf("want io error, got %v", err)
	}
}

func TestRunHelpers(t *testing.T) {
	m := New("brreg-merge")
	m.Read(5)
	m.Read(0)
	m.ShardWritten(3)
	m.ShardWritten(0)
	m.Written(2)
	m.ReadFailed()

	if got := testutil.ToFloat64(m.RowsRead); got != 5 {
		t.Fatalf("rows read = %v", got)
	}
	if got := testutil.ToFloat64(m.ShardsWritten); got != 2 {
		t.Fatalf("shards written = %v", got)
	}
	if got := testutil.ToFloat64(m.RowsWritten); got != 5 {
		t.Fatalf("rows written = %v", got)
	}
	if got := testutil.ToFloat64(m.ShardReadError); got != 1 {
		t.Fatalf("read errors = %v", got)
	}

	var nilM *Metrics
	nilM.Read(1)
	nilM.ShardWritten(1)
	nilM.ReadFailed()
}
