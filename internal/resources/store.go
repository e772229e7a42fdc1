package resources

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/models"
)

// Store holds the loaded resources and their inverse indexes.
// Reload swaps the whole snapshot atomically.
type Store struct {
	cfg    common.ResourcesConfig
	tagger interfaces.Tagger
	logger arbor.ILogger

	mu   sync.RWMutex
	data *snapshot
}

type snapshot struct {
	roleMapping   models.RoleMapping
	formMapping   models.FormMapping
	examples      []models.Example
	lemmaToGroup  map[string]string
	groupExamples map[string][]models.Example
}

// NewStore creates an unloaded resource store
func NewStore(cfg common.ResourcesConfig, tagger interfaces.Tagger, logger arbor.ILogger) *Store {
	return &Store{
		cfg:    cfg,
		tagger: tagger,
		logger: logger,
	}
}

// Load reads the resource files, builds the inverse indexes, and
// swaps them in. Safe to call concurrently with readers.
func (s *Store) Load(ctx context.Context) error {
	roleMapping, formMapping, examples, err := loadFiles(s.cfg.RoleMapping, s.cfg.FormMapping, s.cfg.Examples)
	if err != nil {
		return err
	}

	lemmaToGroup, err := s.buildLemmaIndex(ctx, formMapping)
	if err != nil {
		return err
	}

	groupExamples := make(map[string][]models.Example)
	for _, ex := range examples {
		groupExamples[ex.Group] = append(groupExamples[ex.Group], ex)
	}

	s.mu.Lock()
	s.data = &snapshot{
		roleMapping:   roleMapping,
		formMapping:   formMapping,
		examples:      examples,
		lemmaToGroup:  lemmaToGroup,
		groupExamples: groupExamples,
	}
	s.mu.Unlock()

	s.logger.Info().
		Int("groups", len(roleMapping)).
		Int("lemmas", len(lemmaToGroup)).
		Int("examples", len(examples)).
		Msg("SRL resources loaded")

	return nil
}

// buildLemmaIndex lemmatizes every surface form and maps each lemma
// to its predicate group
func (s *Store) buildLemmaIndex(ctx context.Context, formMapping models.FormMapping) (map[string]string, error) {
	index := make(map[string]string)
	for group, forms := range formMapping {
		for _, form := range forms {
			lemma, err := s.tagger.Lemma(ctx, form)
			if err != nil {
				return nil, fmt.Errorf("failed to lemmatize form %q (group %q): %w", form, group, err)
			}
			if existing, ok := index[lemma]; ok && existing != group {
				s.logger.Warn().
					Str("lemma", lemma).
					Str("group", group).
					Str("existing_group", existing).
					Msg("Lemma mapped to multiple groups, keeping first")
				continue
			}
			index[lemma] = group
		}
	}
	return index, nil
}

// snapshotRef returns the current snapshot or an error when unloaded
func (s *Store) snapshotRef() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, fmt.Errorf("resources not loaded")
	}
	return s.data, nil
}

// Loaded reports whether resources have been loaded
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil
}

// GroupForLemma returns the predicate group of a lemma
func (s *Store) GroupForLemma(lemma string) (string, bool) {
	data, err := s.snapshotRef()
	if err != nil {
		return "", false
	}
	group, ok := data.lemmaToGroup[lemma]
	return group, ok
}

// RuleSet returns the role definitions for a predicate group
func (s *Store) RuleSet(group string) (models.RoleRuleSet, bool) {
	data, err := s.snapshotRef()
	if err != nil {
		return nil, false
	}
	ruleSet, ok := data.roleMapping[group]
	return ruleSet, ok
}

// Examples returns up to n few-shot examples for a predicate group
func (s *Store) Examples(group string, n int) []models.Example {
	data, err := s.snapshotRef()
	if err != nil {
		return nil
	}
	examples := data.groupExamples[group]
	if n > 0 && len(examples) > n {
		examples = examples[:n]
	}
	return examples
}

// Groups summarizes all predicate groups, sorted by name
func (s *Store) Groups() []models.GroupInfo {
	data, err := s.snapshotRef()
	if err != nil {
		return nil
	}

	groups := make([]models.GroupInfo, 0, len(data.roleMapping))
	for group, ruleSet := range data.roleMapping {
		groups = append(groups, models.GroupInfo{
			Group:        group,
			Roles:        ruleSet,
			FormCount:    len(data.formMapping[group]),
			ExampleCount: len(data.groupExamples[group]),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Group < groups[j].Group
	})

	return groups
}
