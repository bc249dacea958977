package csvtable

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"brreg/internal/core/company"
	perr "brreg/internal/platform/errors"
	kit "brreg/internal/platform/testkit"
)

const dump = "\xEF\xBB\xBF organisasjonsnummer ,navn,organisasjonsform.kode\n" +
	"1,Acme,AS\n" +
	"2,\"Ørn, Bygg\",AS\n" +
	"3\n" +
	"4,Bever,AS,extra\n"

func TestDecode(t *testing.T) {
	tb, err := Decode(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if want := []string{"organisasjonsnummer", "navn", "organisasjonsform.kode"}; !reflect.DeepEqual(tb.Header, want) {
		t.Fatalf("header = %q", tb.Header)
	}
	want := [][]string{
		{"1", "Acme", "AS"},
		{"2", "Ørn, Bygg", "AS"},
		{"3", "", ""},
		{"4", "Bever", "AS"},
	}
	if !reflect.DeepEqual(tb.Rows, want) {
		t.Fatalf("rows = %q", tb.Rows)
	}
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	if err != ErrNoHeader || !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("want ErrNoHeader, got %v", err)
	}
}

func TestDecode_LazyQuotes(t *testing.T) {
	tb, err := Decode(strings.NewReader("navn\nAcme \"Best\" AS\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tb.Rows[0][0] != "Acme \"Best\" AS" {
		t.Fatalf("lazy quote cell = %q", tb.Rows[0][0])
	}
}

func TestDecodeColumn(t *testing.T) {
	vals, ok, err := DecodeColumn(strings.NewReader(dump), "navn")
	if err != nil || !ok {
		t.Fatalf("DecodeColumn: ok=%v err=%v", ok, err)
	}
	if want := []string{"Acme", "Ørn, Bygg", "", "Bever"}; !reflect.DeepEqual(vals, want) {
		t.Fatalf("values = %q", vals)
	}

	vals, ok, err = DecodeColumn(strings.NewReader(dump), "konkurs")
	if err != nil || ok || vals != nil {
		t.Fatalf("absent column: %v %v %v", vals, ok, err)
	}

	if _, _, err := DecodeColumn(strings.NewReader(""), "navn"); err == nil {
		t.Fatalf("empty input should fail")
	}
}

func TestCount(t *testing.T) {
	n, err := Count(strings.NewReader(dump))
	if err != nil || n != 4 {
		t.Fatalf("Count = %d, %v", n, err)
	}
	n, err = Count(strings.NewReader("navn\n"))
	if err != nil || n != 0 {
		t.Fatalf("header only Count = %d, %v", n, err)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	in := company.NewTable([]string{"organisasjonsnummer", "navn"},
		[]string{"1", "Acme"},
		[]string{"2", "Ørn, \"Bygg\""},
	)
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got, want := buf.String(), "organisasjonsnummer,navn\n1,Acme\n2,\"Ørn, \"\"Bygg\"\"\"\n"; got != want {
		t.Fatalf("encoded = %q, want %q", got, want)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(out.Rows, in.Rows) {
		t.Fatalf("round trip rows = %q", out.Rows)
	}
}

func TestReadFile(t *testing.T) {
	path := kit.WriteFile(t, "", "all-companies-norway.csv", "\uFEFForganisasjonsnummer,navn\n1,Acme\n")
	tb, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if tb.Len() != 1 || tb.Header[0] != company.ColNumber {
		t.Fatalf("table = %+v", tb)
	}

	_, err = ReadFile(path + ".missing")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if len(perr.HintsOf(err)) == 0 {
		t.Fatalf("missing dump should carry hints")
	}

	empty := kit.WriteFile(t, "", "empty.csv", "")
	if _, err := ReadFile(empty); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("empty dump: want validation, got %v", err)
	}
}
