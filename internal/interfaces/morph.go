package interfaces

import "context"

// Token is a single token produced by morphological analysis
type Token struct {
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
}

// Tagger performs tokenization, POS tagging and lemmatization.
// Implementations may be backed by a local lexicon or a remote
// tagging service.
type Tagger interface {
	// Tag analyzes text and returns its tokens in order
	Tag(ctx context.Context, text string) ([]Token, error)

	// Lemma returns the lemma of a single word
	Lemma(ctx context.Context, word string) (string, error)
}
