package extractor

import (
	"strings"
	"unicode"
)

// tokenize splits a chat message into word tokens, keeping the punctuation
// that model names carry ("f/2.8", "70-200", "EF-S", "R6_II", "1.4x", "+").
func tokenize(message string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return ' '
	}, message)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimRight(f, ".")
		if strings.IndexFunc(f, isAlnum) < 0 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func keepRune(r rune) bool {
	switch r {
	case '_', '/', '.', '-', '+':
		return true
	}
	return isAlnum(r)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
