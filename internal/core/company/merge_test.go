package company

import (
	"reflect"
	"testing"
)

func TestMerge_SameHeader(t *testing.T) {
	a := NewTable([]string{ColNumber, ColName}, []string{"1", "Acme"})
	b := NewTable([]string{ColNumber, ColName}, []string{"3", "Apex"}, []string{"4", "Arc"})
	out := Merge(a, b)
	want := [][]string{{"1", "Acme"}, {"3", "Apex"}, {"4", "Arc"}}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Fatalf("rows = %v", out.Rows)
	}
	if a.Len() != 1 {
		t.Fatalf("Merge mutated existing")
	}
}

func TestMerge_UnionColumns(t *testing.T) {
	a := NewTable([]string{ColNumber, ColName, ColEmail}, []string{"1", "Acme", "a@x.no"})
	b := NewTable([]string{ColName, ColNumber, ColPhone}, []string{"Apex", "3", "555"})
	out := Merge(a, b)
	if want := []string{ColNumber, ColName, ColEmail, ColPhone}; !reflect.DeepEqual(out.Header, want) {
		t.Fatalf("header = %v", out.Header)
	}
	want := [][]string{
		{"1", "Acme", "a@x.no", ""},
		{"3", "Apex", "", "555"},
	}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Fatalf("rows = %v", out.Rows)
	}
}

func TestMerge_NilSides(t *testing.T) {
	b := NewTable([]string{ColNumber}, []string{"9"})
	if out := Merge(nil, b); out.Len() != 1 || out.Rows[0][0] != "9" {
		t.Fatalf("nil existing: %+v", out)
	}
	a := NewTable([]string{ColNumber}, []string{"1"})
	if out := Merge(a, nil); out.Len() != 1 || out.Rows[0][0] != "1" {
		t.Fatalf("nil additions: %+v", out)
	}
}
