// Package words holds the lexical rules that decide which spreadsheet cells are vocabulary words,
// plus the list helpers used to build a sync worklist.
package words

import (
	"strings"
	"unicode"

	"github.com/desertthunder/vocx/internal/shared"
)

// Filter decides whether a raw cell value is a candidate word.
//
// The zero value admits any Unicode letter. Set ASCIIOnly to restrict words to a-z.
type Filter struct {
	ASCIIOnly bool
}

// IsCandidate reports whether raw, once trimmed, starts with a lowercase letter and consists only of
// letters, hyphens and apostrophes, with at least one letter.
func (f Filter) IsCandidate(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !f.isLetter(r) || !unicode.IsLower(r) {
				return false
			}
			continue
		}
		if r == '-' || r == '\'' {
			continue
		}
		if !f.isLetter(r) {
			return false
		}
	}
	return true
}

func (f Filter) isLetter(r rune) bool {
	if f.ASCIIOnly {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	return unicode.IsLetter(r)
}

// IsCandidate applies the default [Filter].
func IsCandidate(raw string) bool {
	return Filter{}.IsCandidate(raw)
}

// Dedupe removes repeated words, keeping the first occurrence of each.
func Dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Subtract returns the candidates not present in existing, compared case-insensitively, in their original order.
//
// Keys of existing are expected to be normalized with [shared.NormalizeWord].
func Subtract(candidates []string, existing map[string]struct{}) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := existing[shared.NormalizeWord(c)]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Set builds a normalized lookup set from words, dropping blanks.
func Set(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if n := shared.NormalizeWord(w); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Split parses a comma or whitespace separated list, as accepted by --words.
func Split(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
