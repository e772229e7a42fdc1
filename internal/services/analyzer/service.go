package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/models"
	"github.com/semkit/rolemark/internal/morph"
	"github.com/semkit/rolemark/internal/resources"
	"github.com/semkit/rolemark/internal/services/cache"
	"github.com/semkit/rolemark/internal/services/llm"
	"github.com/ternarybob/arbor"
)

// Service implements the labeling pipeline: morphological predicate
// detection, prompt construction, the LLM call, and role extraction.
type Service struct {
	resources    *resources.Store
	tagger       interfaces.Tagger
	llm          *llm.ProviderFactory
	cache        *cache.Service
	events       interfaces.EventService
	logger       arbor.ILogger
	exampleCount int
}

// NewService creates a new analyzer service
func NewService(
	res *resources.Store,
	tagger interfaces.Tagger,
	provider *llm.ProviderFactory,
	cacheSvc *cache.Service,
	events interfaces.EventService,
	exampleCount int,
	logger arbor.ILogger,
) *Service {
	if exampleCount <= 0 {
		exampleCount = 2
	}
	return &Service{
		resources:    res,
		tagger:       tagger,
		llm:          provider,
		cache:        cacheSvc,
		events:       events,
		exampleCount: exampleCount,
		logger:       logger,
	}
}

// ExtractPredicates runs morphological analysis and keeps the verbs
// whose lemmas belong to a known predicate group.
func (s *Service) ExtractPredicates(ctx context.Context, text string) (*models.PredicateExtraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	tokens, err := s.tagger.Tag(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("morphological analysis failed: %w", err)
	}

	lemmas, forms := morph.FindVerbs(tokens)

	extraction := &models.PredicateExtraction{
		Text:       text,
		Predicates: []string{},
		Lemmas:     []string{},
	}

	for i, lemma := range lemmas {
		group, ok := s.resources.GroupForLemma(lemma)
		if !ok {
			continue
		}
		extraction.Predicates = append(extraction.Predicates, forms[i])
		extraction.Lemmas = append(extraction.Lemmas, lemma)
		if extraction.PredicateGroup == "" {
			extraction.PredicateGroup = group
		}
	}
	extraction.HasRelevantPredicates = len(extraction.Lemmas) > 0

	return extraction, nil
}

// Analyze runs the full labeling pipeline on the text.
// LLM failures do not fail the call: the result carries the error
// alongside the detected predicates, matching the API contract.
func (s *Service) Analyze(ctx context.Context, text string) (*models.Analysis, error) {
	extraction, err := s.ExtractPredicates(ctx, text)
	if err != nil {
		return nil, err
	}

	analysis := &models.Analysis{
		ID:                    common.NewAnalysisID(),
		Text:                  extraction.Text,
		Predicates:            extraction.Predicates,
		Lemmas:                extraction.Lemmas,
		Roles:                 []models.SemanticRole{},
		HasRelevantPredicates: extraction.HasRelevantPredicates,
		PredicateGroup:        extraction.PredicateGroup,
		AnalyzedAt:            time.Now(),
	}

	if !extraction.HasRelevantPredicates {
		s.logger.Info().Str("id", analysis.ID).Msg("No relevant predicates found")
		return analysis, nil
	}

	s.logger.Info().
		Str("id", analysis.ID).
		Str("group", extraction.PredicateGroup).
		Strs("predicates", extraction.Predicates).
		Msg("Analyzing text")

	s.publish(ctx, interfaces.EventAnalysisStarted, map[string]interface{}{
		"id":    analysis.ID,
		"text":  analysis.Text,
		"group": extraction.PredicateGroup,
	})

	provider := s.llm.DetectProvider("")
	model := s.llm.GetDefaultModel(provider)
	analysis.Provider = string(provider)
	analysis.Model = model

	cacheKey := models.CacheKey(analysis.Text, model, extraction.PredicateGroup)
	if cached, ok := s.cache.Get(ctx, cacheKey); ok {
		s.logger.Debug().Str("id", cached.ID).Msg("Returning cached analysis")
		s.publish(ctx, interfaces.EventAnalysisCompleted, map[string]interface{}{
			"id":     cached.ID,
			"cached": true,
		})
		return cached, nil
	}

	ruleSet, ok := s.resources.RuleSet(extraction.PredicateGroup)
	if !ok {
		return nil, fmt.Errorf("no role ruleset for predicate group %q", extraction.PredicateGroup)
	}
	examples := s.resources.Examples(extraction.PredicateGroup, s.exampleCount)

	system, messages, err := BuildPrompt(analysis.Text, ruleSet, examples)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	resp, err := s.llm.GenerateContent(ctx, &llm.ContentRequest{
		Messages:          messages,
		SystemInstruction: system,
		OutputSchema:      llm.RoleMarkupSchema(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("id", analysis.ID).Msg("Labeling call failed")
		analysis.Error = err.Error()
		s.publish(ctx, interfaces.EventAnalysisFailed, map[string]interface{}{
			"id":    analysis.ID,
			"error": err.Error(),
		})
		return analysis, nil
	}
	analysis.Provider = string(resp.Provider)
	analysis.Model = resp.Model

	markup, parseErr := ParseMarkup(resp.Text)
	if parseErr != nil {
		s.logger.Error().Err(parseErr).Str("id", analysis.ID).Msg("Failed to parse markup response")
		analysis.Error = fmt.Sprintf("failed to parse model output: %s", parseErr)
	} else {
		analysis.Roles = ConvertRoles(markup)
		s.cache.Put(ctx, cacheKey, analysis)
	}

	s.logger.Info().
		Str("id", analysis.ID).
		Int("roles", len(analysis.Roles)).
		Msg("Analysis completed")

	s.publish(ctx, interfaces.EventAnalysisCompleted, map[string]interface{}{
		"id":    analysis.ID,
		"roles": len(analysis.Roles),
	})

	return analysis, nil
}

func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Str("event", string(eventType)).Msg("Failed to publish event")
	}
}
