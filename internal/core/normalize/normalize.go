// Package normalize cleans operator input before it is placed in a request body
// Pipelines
// Text   drop ill formed UTF-8 and control runes, NFC, collapse whitespace
// Digits NFKC and width fold, then keep only ASCII digits, separators dropped
// Code   width fold and upper case, for ISO country, currency and enum codes
package normalize

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transformer chains are stateful, pool a fresh one per pipeline
var (
	textPool = sync.Pool{New: func() any {
		return transform.Chain(
			runes.ReplaceIllFormed(),
			runes.Remove(runes.Predicate(isDroppedControl)),
			norm.NFC,
		)
	}}
	digitPool = sync.Pool{New: func() any {
		return transform.Chain(norm.NFKC, width.Narrow)
	}}
	codePool = sync.Pool{New: func() any {
		return transform.Chain(width.Narrow, cases.Upper(language.Und))
	}}
)

func run(p *sync.Pool, s string) string {
	tr := p.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	p.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// isDroppedControl keeps tab and newlines, which collapse later, and drops the rest
func isDroppedControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r) || r == utf8.RuneError || unicode.In(r, unicode.Cf)
}

// Text returns s cleaned for free text fields like names and descriptions
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(run(&textPool, s)), " ")
}

// Digits returns the ASCII digits of s with spaces, dashes and dots removed
// ok is false when any other rune remains, so "4111 1111-1111 1111" passes and "4111x" does not
func Digits(s string) (out string, ok bool) {
	s = run(&digitPool, strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	ok = true
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || unicode.IsSpace(r):
		default:
			ok = false
		}
	}
	return b.String(), ok && b.Len() > 0
}

// Code returns s trimmed, narrowed and upper cased
func Code(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return run(&codePool, s)
}
