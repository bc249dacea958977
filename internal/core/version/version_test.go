package version

import "testing"

func TestInfo(t *testing.T) {
	bi := Info()
	if bi.Service != "brreg" || bi.Version != "dev" {
		t.Fatalf("Info = %+v", bi)
	}
	if got := bi.String(); got != "dev (none, unknown)" {
		t.Fatalf("String = %q", got)
	}
}
