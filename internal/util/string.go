package util

import (
	"sort"
	"strings"
	"unicode"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CleanText lowercases s and keeps only ASCII letters, digits and whitespace.
func CleanText(s string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case unicode.IsSpace(r):
			builder.WriteRune(r)
		}
	}
	return strings.TrimSpace(builder.String())
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "you": {}, "your": {}, "this": {},
	"that": {}, "from": {}, "how": {}, "what": {}, "are": {}, "our": {}, "new": {},
	"all": {}, "into": {}, "out": {}, "why": {}, "its": {}, "was": {}, "not": {},
}

// TopKeywords returns up to limit of the most frequent words (3+ letters, no stop words)
// across texts. Ties are broken alphabetically.
func TopKeywords(texts []string, limit int) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, word := range strings.Fields(CleanText(text)) {
			if len(word) < 3 {
				continue
			}
			if _, skip := stopWords[word]; skip {
				continue
			}
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
