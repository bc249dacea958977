// Package normalize provides deterministic text cleanup for registry cells
// Pipeline order
// 1 Sanitize drop control bytes and invalid UTF-8
// 2 Unicode NFC composition so "Å" and "Å" compare equal
// 3 Remove format characters (BOM, zero-width space, joiners)
// 4 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
		)
	},
}

func fold(s string) string {
	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return s
	}
	return ns
}

// Field returns the cleaned form of a key cell (form code, registry number, name)
// Empty input and whitespace-only input both return ""
func Field(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpaces(fold(Sanitize(s)))
}

// Initial returns the first rune of s after NFC composition and removal of
// format characters (BOM, zero-width space). Whitespace and control runes are
// returned as is. ok is false for empty input or an invalid leading byte
func Initial(s string) (r rune, ok bool) {
	s = fold(s)
	if s == "" {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return 0, false
	}
	return c, true
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}

// Sanitize drops invalid UTF-8 bytes and control runes (C0, DEL, C1) other than tab, CR and LF
func Sanitize(s string) string {
	if utf8.ValidString(s) && strings.IndexFunc(s, dropped) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r != utf8.RuneError || size > 1) && !dropped(r) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func dropped(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return false
	}
	return unicode.IsControl(r)
}
