package morph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple sentence", "Я боюсь собак.", []string{"Я", "боюсь", "собак"}},
		{"punctuation dropped", "Привет, мир!", []string{"Привет", "мир"}},
		{"inner hyphen kept", "кто-то пришёл", []string{"кто-то", "пришёл"}},
		{"leading hyphen trimmed", "- за брата", []string{"за", "брата"}},
		{"empty", "", nil},
		{"only punctuation", "?! ...", nil},
		{"digits", "в 2024 году", []string{"в", "2024", "году"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestLexiconTaggerTag(t *testing.T) {
	lexicon := Lexicon{
		"я":     {Lemma: "я", POS: "PRON"},
		"боюсь": {Lemma: "бояться", POS: "VERB"},
		"собак": {Lemma: "собака", POS: "NOUN"},
	}
	tagger := NewLexiconTagger(lexicon, arbor.NewLogger())

	tokens, err := tagger.Tag(context.Background(), "Я боюсь собак.")
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, "Я", tokens[0].Text)
	assert.Equal(t, "я", tokens[0].Lemma)
	assert.Equal(t, "PRON", tokens[0].POS)

	assert.Equal(t, "бояться", tokens[1].Lemma)
	assert.Equal(t, POSVerb, tokens[1].POS)
}

func TestLexiconTaggerVerbHeuristic(t *testing.T) {
	// Verb forms outside the lexicon fall back to suffix rewriting.
	// The thematic "е" is dropped, the thematic "и" is kept.
	tagger := NewLexiconTagger(Lexicon{}, arbor.NewLogger())

	tests := []struct {
		word  string
		lemma string
	}{
		{"нравится", "нравиться"},
		{"пугается", "пугаться"},
		{"пугаешься", "пугаться"},
		{"пугаюсь", "пугаться"},
		{"боюсь", "бояться"},
		{"боялась", "бояться"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			tokens, err := tagger.Tag(context.Background(), tt.word)
			require.NoError(t, err)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.lemma, tokens[0].Lemma)
			assert.Equal(t, POSVerb, tokens[0].POS)
		})
	}
}

func TestLexiconTaggerStemAlternation(t *testing.T) {
	// The infinitive stem of бояться differs from its present stem, so
	// the suffix heuristic cannot recover it. Such forms come from the
	// lexicon; the heuristic only handles whatever the lexicon misses.
	lexicon := Lexicon{
		"боится": {Lemma: "бояться", POS: "VERB"},
	}
	tagger := NewLexiconTagger(lexicon, arbor.NewLogger())

	tokens, err := tagger.Tag(context.Background(), "Боится")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "бояться", tokens[0].Lemma)

	// Without the lexicon entry the guess keeps the present stem
	bare := NewLexiconTagger(Lexicon{}, arbor.NewLogger())
	lemma, err := bare.Lemma(context.Background(), "боится")
	require.NoError(t, err)
	assert.Equal(t, "боиться", lemma)
}

func TestLexiconTaggerUnknownWord(t *testing.T) {
	tagger := NewLexiconTagger(Lexicon{}, arbor.NewLogger())

	tokens, err := tagger.Tag(context.Background(), "мама")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "мама", tokens[0].Lemma)
	assert.Equal(t, POSUnknown, tokens[0].POS)
}

func TestFindVerbs(t *testing.T) {
	tokens := []interfaces.Token{
		{Text: "Я", Lemma: "я", POS: "PRON"},
		{Text: "боюсь", Lemma: "бояться", POS: "VERB"},
		{Text: "и", Lemma: "и", POS: "CCONJ"},
		{Text: "пугаюсь", Lemma: "пугаться", POS: "VERB"},
	}

	lemmas, forms := FindVerbs(tokens)
	assert.Equal(t, []string{"бояться", "пугаться"}, lemmas)
	assert.Equal(t, []string{"боюсь", "пугаюсь"}, forms)
}

func TestRemoteTaggerTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Я боюсь", req.Text)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens": []interfaces.Token{
				{Text: "Я", Lemma: "я", POS: "PRON"},
				{Text: "боюсь", Lemma: "бояться", POS: "VERB"},
			},
		})
	}))
	defer server.Close()

	tagger := NewRemoteTagger(server.URL, 0, arbor.NewLogger())

	tokens, err := tagger.Tag(context.Background(), "Я боюсь")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "бояться", tokens[1].Lemma)
}

func TestRemoteTaggerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model not loaded"})
	}))
	defer server.Close()

	tagger := NewRemoteTagger(server.URL, 0, arbor.NewLogger())

	_, err := tagger.Tag(context.Background(), "текст")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestRemoteTaggerLemma(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens": []interfaces.Token{{Text: "собак", Lemma: "собака", POS: "NOUN"}},
		})
	}))
	defer server.Close()

	tagger := NewRemoteTagger(server.URL, 0, arbor.NewLogger())

	lemma, err := tagger.Lemma(context.Background(), "собак")
	require.NoError(t, err)
	assert.Equal(t, "собака", lemma)
}
