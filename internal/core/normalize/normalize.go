// Package normalize cleans captured text and derives fold keys for fuzzy matching
//
// Text keeps what the user wrote and only repairs it:
// 1 drop control bytes and invalid UTF-8
// 2 Unicode NFC composition
// 3 collapse whitespace, keeping line breaks
//
// Key is for comparison only:
// 1 NFKD so accents split off their letters
// 2 case folding
// 3 strip combining marks and format characters
// 4 width fold, then NFC
// 5 punctuation to spaces, collapse to single spaces
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var keyChains = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			norm.NFC,
		)
	},
}

// Text returns a cleaned copy of user input suitable for storage
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(Sanitize(s))
	return collapseSpaces(s)
}

// Line is Text flattened onto a single line
func Line(s string) string {
	return strings.Join(strings.Fields(Text(s)), " ")
}

// Key returns the fold key of s, two strings with equal keys read the same to a person
func Key(s string) string {
	if s == "" {
		return ""
	}
	tr := keyChains.Get().(transform.Transformer)
	out, _, err := transform.String(tr, Sanitize(s))
	tr.Reset()
	keyChains.Put(tr)
	if err != nil {
		out = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Contains reports whether needle's key appears inside haystack's key on word boundaries
func Contains(haystack, needle string) bool {
	n := Key(needle)
	if n == "" {
		return false
	}
	return strings.Contains(" "+Key(haystack)+" ", " "+n+" ")
}

// collapseSpaces turns whitespace runs into one space, or one newline when the
// run held a line break, and trims both ends
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending, newline := false, false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = true
			if r == '\n' || r == '\r' {
				newline = true
			}
			continue
		}
		if pending && b.Len() > 0 {
			if newline {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		pending, newline = false, false
		b.WriteRune(r)
	}
	return b.String()
}
