package interfaces

import (
	"context"

	"github.com/semkit/rolemark/internal/models"
)

// Analyzer performs semantic role labeling on input text
type Analyzer interface {
	// Analyze runs the full labeling pipeline: predicate detection,
	// prompt construction, LLM call, and role extraction
	Analyze(ctx context.Context, text string) (*models.Analysis, error)

	// ExtractPredicates runs predicate detection only, without an LLM call
	ExtractPredicates(ctx context.Context, text string) (*models.PredicateExtraction, error)
}
