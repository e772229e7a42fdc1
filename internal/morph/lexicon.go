package morph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/interfaces"
)

// POS tags used by the taggers
const (
	POSVerb    = "VERB"
	POSUnknown = "X"
)

// LexiconEntry describes a single known word form
type LexiconEntry struct {
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
}

// Lexicon maps lowercased surface forms to their analysis
type Lexicon map[string]LexiconEntry

// LoadLexicon reads a lexicon file (JSON object of form -> entry)
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}

	var raw map[string]LexiconEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon %s: %w", path, err)
	}

	lexicon := make(Lexicon, len(raw))
	for form, entry := range raw {
		lexicon[strings.ToLower(strings.TrimSpace(form))] = entry
	}
	return lexicon, nil
}

// LexiconTagger tags tokens from a lexicon of known forms, with a
// conservative suffix heuristic for verbs outside the lexicon.
// Predicate detection only depends on forms listed in the form
// mapping, and those are lemmatized through the same code path, so
// heuristic lemmas stay internally consistent.
type LexiconTagger struct {
	lexicon Lexicon
	logger  arbor.ILogger
}

// NewLexiconTagger creates a tagger over the given lexicon
func NewLexiconTagger(lexicon Lexicon, logger arbor.ILogger) *LexiconTagger {
	return &LexiconTagger{
		lexicon: lexicon,
		logger:  logger,
	}
}

// Tag analyzes text and returns its tokens in order
func (t *LexiconTagger) Tag(ctx context.Context, text string) ([]interfaces.Token, error) {
	words := Tokenize(text)
	tokens := make([]interfaces.Token, 0, len(words))
	for _, word := range words {
		tokens = append(tokens, t.tagWord(word))
	}
	return tokens, nil
}

// Lemma returns the lemma of a single word
func (t *LexiconTagger) Lemma(ctx context.Context, word string) (string, error) {
	return t.tagWord(strings.TrimSpace(word)).Lemma, nil
}

func (t *LexiconTagger) tagWord(word string) interfaces.Token {
	lower := strings.ToLower(word)

	if entry, ok := t.lexicon[lower]; ok {
		return interfaces.Token{Text: word, Lemma: entry.Lemma, POS: entry.POS}
	}

	if lemma, ok := guessVerbLemma(lower); ok {
		return interfaces.Token{Text: word, Lemma: lemma, POS: POSVerb}
	}

	return interfaces.Token{Text: word, Lemma: lower, POS: POSUnknown}
}

// verbSuffixes rewrites finite verb endings to infinitive ones.
// Ordered longest-first; first match wins.
var verbSuffixes = []struct {
	ending  string
	replace string
}{
	{"ишься", "иться"},
	{"ешься", "ться"},
	{"итесь", "иться"},
	{"етесь", "ться"},
	{"имся", "иться"},
	{"емся", "ться"},
	{"ится", "иться"},
	{"ется", "ться"},
	{"ятся", "яться"},
	{"ются", "ться"},
	{"ться", "ться"},
	{"аюсь", "аться"},
	{"юсь", "яться"},
	{"усь", "ться"},
	{"лась", "ться"},
	{"лось", "ться"},
	{"лись", "ться"},
	{"лся", "ться"},
	{"ишь", "ить"},
	{"ешь", "ть"},
	{"ть", "ть"},
	{"ит", "ить"},
	{"ет", "ть"},
	{"ют", "ть"},
	{"ят", "ить"},
}

// guessVerbLemma applies the suffix table to words missing from the
// lexicon. The present-tense thematic "е" is dropped on rewrite
// (пугается -> пугаться) while the thematic "и" is kept
// (нравится -> нравиться). Verbs whose infinitive stem differs from
// the present stem (боится/бояться) cannot be rewritten this way and
// must be listed in the lexicon. The stem must keep at least two
// runes to avoid tagging short nouns as verbs.
func guessVerbLemma(word string) (string, bool) {
	runes := []rune(word)
	for _, s := range verbSuffixes {
		ending := []rune(s.ending)
		if len(runes) < len(ending)+2 {
			continue
		}
		if string(runes[len(runes)-len(ending):]) == s.ending {
			stem := string(runes[:len(runes)-len(ending)])
			return stem + s.replace, true
		}
	}
	return "", false
}
