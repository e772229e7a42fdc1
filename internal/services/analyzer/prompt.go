package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/models"
)

const systemPromptTemplate = `You are a Russian linguist specializing in semantic role labeling.
Your task is to analyze Russian text and identify semantic roles according to these rules:

%s

Format your response as a JSON object with a "roles" array. Each role should have:
- short_reasoning: Brief explanation of why this role was assigned
- arg_role: The semantic role from the rules above
- arg_phrase_or_clause: The full phrase or clause that fills this role
- arg_main_indicative_word: The main word that indicates this role

If no roles can be identified, return a single role with "Not-Applicable" values.`

const analyzePromptTemplate = `Please analyze this text and identify all semantic roles:
%s

Remember:
1. Only identify roles that are explicitly present in the text
2. Use the exact words/phrases from the input text
3. Provide clear, concise reasoning for each role
4. If no roles can be identified, use "Not-Applicable"`

// BuildPrompt constructs the system instruction and conversation for a
// labeling call: the role ruleset rendered into the system message,
// few-shot user/assistant pairs built from annotated examples, and the
// text to analyze as the final user message.
func BuildPrompt(text string, ruleSet models.RoleRuleSet, examples []models.Example) (string, []interfaces.Message, error) {
	ruleJSON, err := marshalIndent(ruleSet, "    ")
	if err != nil {
		return "", nil, fmt.Errorf("failed to render role ruleset: %w", err)
	}

	system := fmt.Sprintf(systemPromptTemplate, ruleJSON)

	messages := make([]interfaces.Message, 0, 2*len(examples)+1)
	for _, ex := range examples {
		markup, err := exampleMarkup(ex)
		if err != nil {
			return "", nil, err
		}
		messages = append(messages,
			interfaces.Message{Role: "user", Content: ex.Text},
			interfaces.Message{Role: "assistant", Content: markup},
		)
	}

	messages = append(messages, interfaces.Message{
		Role:    "user",
		Content: fmt.Sprintf(analyzePromptTemplate, text),
	})

	return system, messages, nil
}

// exampleMarkup renders an annotated example as the assistant reply the
// model is expected to mirror. Predicate entities are annotations of the
// predicate itself, not arguments, and are skipped.
func exampleMarkup(ex models.Example) (string, error) {
	roles := make([]models.MarkupRole, 0, len(ex.Roles))
	for _, role := range ex.Roles {
		if role.IsPredicate() {
			continue
		}
		phrase, label, ok := role.Split()
		if !ok {
			continue
		}
		words := strings.Fields(phrase)
		if len(words) == 0 {
			continue
		}
		roles = append(roles, models.MarkupRole{
			ShortReasoning:        "Example role from training data",
			ArgRole:               label,
			ArgPhraseOrClause:     phrase,
			ArgMainIndicativeWord: words[0],
		})
	}

	markup, err := marshalIndent(models.RoleMarkup{Roles: roles}, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render example markup: %w", err)
	}
	return markup, nil
}

// marshalIndent marshals without HTML escaping so Cyrillic text and
// punctuation survive verbatim in the prompt.
func marshalIndent(v interface{}, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
