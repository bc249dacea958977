package company

import (
	"reflect"
	"testing"

	perr "brreg/internal/platform/errors"
	kit "brreg/internal/platform/testkit"
)

func TestRequireColumns(t *testing.T) {
	tb := NewTable([]string{ColName, "x"})
	if err := RequireColumns(tb, ColName); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := RequireColumns(tb, MergeColumns...)
	if !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("want config error, got %v", err)
	}
	kit.MustContain(t, err.Error(), ColForm)
	kit.MustContain(t, err.Error(), ColNumber)
	if hs := perr.HintsOf(err); !reflect.DeepEqual(hs, []string{ColForm, ColNumber}) {
		t.Fatalf("hints = %v", hs)
	}
	if perr.ExitCode(err) != perr.ExitValidation {
		t.Fatalf("exit = %d", perr.ExitCode(err))
	}
}

func TestNormalize(t *testing.T) {
	tb := NewTable([]string{ColNumber, ColForm, ColName, ColWebsite},
		[]string{" 912345678 ", "as", "Acme", ""},
		[]string{"912345679.0", "", "  ", "x"},
		[]string{"", " ENK ", "Ørn", ""},
	)
	Normalize(tb)
	want := [][]string{
		{"912345678", "as", "Acme", ""},
		{"912345679", Unknown, Unknown, "x"},
		{"", " ENK ", "Ørn", ""},
	}
	if !reflect.DeepEqual(tb.Rows, want) {
		t.Fatalf("rows = %v, want %v", tb.Rows, want)
	}
}

func TestCanonicalNumber(t *testing.T) {
	cases := map[string]string{
		"912345678":    "912345678",
		" 912345678\t": "912345678",
		"912345678.0":  "912345678",
		".0":           ".0",
		"abc.0":        "abc.0",
		"912345678.5":  "912345678.5",
		"":             "",
		"\uFEFF1":      "1",
	}
	for in, want := range cases {
		if got := CanonicalNumber(in); got != want {
			t.Fatalf("CanonicalNumber(%q) = %q, want %q", in, got, want)
		}
	}
}
