package testkit

import (
	"os"
	"sync"
	"testing"
	"time"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()
	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()
	MustContain(t, "Found 2 organisation forms: AS, ENK", "AS, ENK")
}

func TestWriteFile(t *testing.T) {
	p := WriteFile(t, "", "nested/dump.csv", "navn\nAcme\n")
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "navn\nAcme\n" {
		t.Fatalf("read back %q, %v", b, err)
	}
}

var newRunID = func() string { return "random" }

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &newRunID, func() string { return "run-fixed" })
		if got := newRunID(); got != "run-fixed" {
			t.Fatalf("swap not applied, got %q", got)
		}
	})
	if got := newRunID(); got != "random" {
		t.Fatalf("swap not restored, got %q", got)
	}
}

func TestSerial_NoInterleaving(t *testing.T) {
	var (
		mu  sync.Mutex
		seq []string
	)
	record := func(s string) {
		mu.Lock()
		seq = append(seq, s)
		mu.Unlock()
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"split", "merge"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				record(name + "-start")
				time.Sleep(20 * time.Millisecond)
				record(name + "-end")
			})
		}
	})

	if len(seq) != 4 {
		t.Fatalf("seq = %v", seq)
	}
	for i := 0; i < 4; i += 2 {
		start, end := seq[i], seq[i+1]
		if start[:len(start)-len("-start")] != end[:len(end)-len("-end")] {
			t.Fatalf("interleaved run: %v", seq)
		}
	}
}
