package raw

import "testing"

func TestGet_PrefixAndDefault(t *testing.T) {
	t.Setenv("LOG_LEVEL", " debug ")
	t.Setenv("LOG_FORMAT", "   ")
	t.Setenv("BRREG_LOG_LEVEL", "warn")

	log := New().Prefix("LOG_")
	if got := log.Get("LEVEL", "info"); got != "debug" {
		t.Fatalf("LEVEL = %q", got)
	}
	if got := log.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("blank FORMAT should fall back, got %q", got)
	}
	if got := New().Prefix("BRREG_").Prefix("LOG_").Get("LEVEL", ""); got != "warn" {
		t.Fatalf("nested prefix = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("LOG_")
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"1", false, true},
		{" YES ", false, true},
		{"on", false, true},
		{"T", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"sometimes", true, false},
		{"", true, true},
		{"", false, false},
	}
	for _, tc := range cases {
		t.Setenv("LOG_CALLER", tc.val)
		if got := c.GetBool("CALLER", tc.def); got != tc.want {
			t.Fatalf("GetBool(%q, def=%v) = %v, want %v", tc.val, tc.def, got, tc.want)
		}
	}
}
