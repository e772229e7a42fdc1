// Package morph provides tokenization, POS tagging and lemmatization
// for predicate detection. The default implementation is backed by a
// JSON lexicon of known word forms; a remote HTTP tagger can be
// configured for full morphological analysis.
package morph

import (
	"strings"
	"unicode"
)

// Tokenize splits text into word tokens. Words are runs of letters,
// digits and inner hyphens; punctuation is dropped.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.Trim(current.String(), "-"))
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(r)
		case r == '-' && current.Len() > 0:
			// Keep inner hyphens (кто-то, что-нибудь)
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	// Drop tokens reduced to nothing by hyphen trimming
	out := tokens[:0]
	for _, tok := range tokens {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
