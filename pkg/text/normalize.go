// Package text folds free-form caller messages into a canonical form for matching.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips diacritics (NFD + removal of combining marks).
// The result is trimmed and recomposed, so Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// transform.Chain keeps internal buffers, build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.TrimSpace(folded)
}

// ExtractDigits keeps only the ASCII digits of s.
func ExtractDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// ContainsLetters reports whether s has at least one ASCII letter.
func ContainsLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

// Tokens splits an already normalized message into words, treating
// punctuation as a separator.
func Tokens(normalized string) []string {
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
}

// ContainsWord reports whether word appears in normalized as a whole token.
// Multi-word values fall back to substring matching.
func ContainsWord(normalized, word string) bool {
	if word == "" {
		return false
	}
	if strings.Contains(word, " ") {
		return strings.Contains(normalized, word)
	}
	for _, tok := range Tokens(normalized) {
		if strings.TrimRight(tok, ".") == word {
			return true
		}
	}
	return false
}
