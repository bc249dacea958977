// Package bucket maps company names to shard keys
package bucket

import (
	"brreg/internal/core/normalize"
)

// Other is the overflow key for names without an ASCII letter initial
const Other = "OTHER"

var all = func() []string {
	keys := make([]string, 0, 27)
	for c := 'A'; c <= 'Z'; c++ {
		keys = append(keys, string(c))
	}
	return append(keys, Other)
}()

// Key returns the shard key for a company name
// ASCII letters map case-insensitively to their uppercase letter; everything
// else (leading whitespace, digits, punctuation, non-ASCII letters such as Ø or Å,
// empty) maps to Other
func Key(name string) string {
	r, ok := normalize.Initial(name)
	if !ok {
		return Other
	}
	switch {
	case r >= 'A' && r <= 'Z':
		return string(r)
	case r >= 'a' && r <= 'z':
		return string(r - 'a' + 'A')
	default:
		return Other
	}
}

// KeyOf is Key for untyped values; anything that is not a string maps to Other
func KeyOf(v any) string {
	switch s := v.(type) {
	case string:
		return Key(s)
	case *string:
		if s == nil {
			return Other
		}
		return Key(*s)
	default:
		return Other
	}
}

// Valid reports whether key is one of the 27 legal shard keys
func Valid(key string) bool {
	if key == Other {
		return true
	}
	return len(key) == 1 && key[0] >= 'A' && key[0] <= 'Z'
}

// All lists every shard key in file order, A..Z then OTHER
func All() []string { return append([]string(nil), all...) }
