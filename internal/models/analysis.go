package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// AnalyzeRequest is the request body for an analysis call
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required,min=1,max=4096"`
}

// Analysis is the result of a semantic role labeling run
type Analysis struct {
	ID                    string         `json:"id"`
	Text                  string         `json:"text"`
	Predicates            []string       `json:"predicates"`
	Lemmas                []string       `json:"lemmas"`
	Roles                 []SemanticRole `json:"roles"`
	HasRelevantPredicates bool           `json:"has_relevant_predicates"`
	PredicateGroup        string         `json:"predicate_group,omitempty"`
	Provider              string         `json:"provider,omitempty"`
	Model                 string         `json:"model,omitempty"`
	Cached                bool           `json:"cached,omitempty"`
	Error                 string         `json:"error,omitempty"`
	AnalyzedAt            time.Time      `json:"analyzed_at"`
}

// PredicateExtraction is the result of predicate detection without labeling
type PredicateExtraction struct {
	Text                  string   `json:"text"`
	Predicates            []string `json:"predicates"`
	Lemmas                []string `json:"lemmas"`
	PredicateGroup        string   `json:"predicate_group,omitempty"`
	HasRelevantPredicates bool     `json:"has_relevant_predicates"`
}

// CachedAnalysis is a persisted analysis result keyed for cache lookup
type CachedAnalysis struct {
	Key       string    `badgerhold:"key"`
	Analysis  Analysis  `json:"analysis"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheKey derives the cache key for an analysis: the input text plus
// the model and predicate group that shaped the prompt.
func CacheKey(text, model, group string) string {
	h := sha256.Sum256([]byte(text + "\x00" + model + "\x00" + group))
	return hex.EncodeToString(h[:])
}
