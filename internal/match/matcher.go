// Package match provides word counting and whole-word keyword matching
// over extracted page text.
package match

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Policy controls how keyword occurrences are matched.
type Policy struct {
	CaseSensitive bool // Match keywords with exact case (default: insensitive)
}

// Matcher counts whole-word keyword occurrences in page text.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	keywords []string
	patterns []*regexp.Regexp
}

// NewMatcher builds a matcher for the given keywords. Keywords are
// trimmed and deduplicated; with a case-insensitive policy they are
// also lowercased. At least one non-empty keyword is required.
func NewMatcher(keywords []string, policy Policy) (*Matcher, error) {
	seen := make(map[string]struct{}, len(keywords))
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if !policy.CaseSensitive {
			kw = strings.ToLower(kw)
		}
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		normalized = append(normalized, kw)
	}

	if len(normalized) == 0 {
		return nil, fmt.Errorf("no keywords after normalization")
	}

	// Patterns find literal occurrences; the word-boundary test happens
	// on the surrounding runes in Counts. Regex \b would be wrong here:
	// it demands a word character inside the match, so keywords ending
	// in symbols ("c++") could never match at all.
	patterns := make([]*regexp.Regexp, 0, len(normalized))
	for _, kw := range normalized {
		expr := regexp.QuoteMeta(kw)
		if !policy.CaseSensitive {
			expr = `(?i)` + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", kw, err)
		}
		patterns = append(patterns, re)
	}

	return &Matcher{
		keywords: normalized,
		patterns: patterns,
	}, nil
}

// Keywords returns the normalized keyword set in input order.
func (m *Matcher) Keywords() []string {
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}

// Counts returns the number of whole-word occurrences of each keyword
// in text. An occurrence counts only when the runes immediately before
// and after it are not letters or digits, so a hit inside a longer
// word ("data" in "database") does not count, while punctuation and
// symbol neighbors do not disqualify it. Every keyword is present in
// the result, zero allowed.
func (m *Matcher) Counts(text string) map[string]int {
	counts := make(map[string]int, len(m.keywords))
	for i, kw := range m.keywords {
		n := 0
		for _, loc := range m.patterns[i].FindAllStringIndex(text, -1) {
			if isolated(text, loc[0], loc[1]) {
				n++
			}
		}
		counts[kw] = n
	}
	return counts
}

// isolated reports whether text[start:end] is flanked by non-word
// runes (or the text edges) on both sides.
func isolated(text string, start, end int) bool {
	if r, size := utf8.DecodeLastRuneInString(text[:start]); size > 0 && isWordRune(r) {
		return false
	}
	if r, size := utf8.DecodeRuneInString(text[end:]); size > 0 && isWordRune(r) {
		return false
	}
	return true
}

// isWordRune reports whether r glues an occurrence into a longer word.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// WordCount returns the number of whitespace-separated tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
