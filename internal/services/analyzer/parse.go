package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/semkit/rolemark/internal/models"
)

// ParseMarkup decodes the model's structured output. Code fences are
// stripped first since some backends wrap JSON output even when a
// schema is enforced.
func ParseMarkup(raw string) (*models.RoleMarkup, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty markup response")
	}

	var markup models.RoleMarkup
	if err := json.Unmarshal([]byte(cleaned), &markup); err != nil {
		return nil, fmt.Errorf("failed to parse markup response: %w", err)
	}
	return &markup, nil
}

// ConvertRoles maps structured markup roles to the simplified API
// format. The indicative word field is the primary source of the role
// text; responses that leave it empty fall back to a parenthetical or
// head-word heuristic on the argument phrase. Not-Applicable entries
// mean the model found nothing and are dropped.
func ConvertRoles(markup *models.RoleMarkup) []models.SemanticRole {
	if markup == nil {
		return []models.SemanticRole{}
	}

	roles := make([]models.SemanticRole, 0, len(markup.Roles))
	for _, r := range markup.Roles {
		label := strings.TrimSpace(r.ArgRole)
		if label == "" || label == string(models.RoleNotApplicable) {
			continue
		}

		word := strings.TrimSpace(r.ArgMainIndicativeWord)
		if word == "" || word == string(models.RoleNotApplicable) {
			word = fallbackWord(r.ArgPhraseOrClause, label)
		}
		if word == "" {
			continue
		}

		roles = append(roles, models.SemanticRole{
			Role: models.RoleLabel(label),
			Text: word,
		})
	}
	return roles
}

// fallbackWord recovers an indicative word from the argument phrase.
// A parenthetical, when present, narrows the phrase first. The
// Experiencer role is typically phrase-initial in Russian dative and
// nominative constructions; other roles take the final word.
func fallbackWord(phrase, role string) string {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" || phrase == string(models.RoleNotApplicable) {
		return ""
	}

	if start := strings.Index(phrase, "("); start != -1 {
		if end := strings.Index(phrase, ")"); end > start {
			phrase = phrase[start+1 : end]
		}
	}

	words := strings.Fields(phrase)
	if len(words) == 0 {
		return ""
	}
	if role == string(models.RoleExperiencer) {
		return words[0]
	}
	return words[len(words)-1]
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx != -1 {
		// Drop the language tag line (e.g. "json")
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "" || !strings.HasPrefix(firstLine, "{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
