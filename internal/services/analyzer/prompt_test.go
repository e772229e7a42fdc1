package analyzer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/semkit/rolemark/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	ruleSet := models.RoleRuleSet{
		"Experiencer": "The one who experiences the fear",
		"Cause":       "What causes the fear",
	}
	examples := []models.Example{
		{
			Group: "fear",
			Text:  "Я боюсь собак.",
			Roles: []models.ExampleRole{
				{Entity: "Я#Experiencer"},
				{Entity: "боюсь#predicate"},
				{Entity: "- собак#Cause"},
			},
		},
	}

	system, messages, err := BuildPrompt("Мама боится высоты.", ruleSet, examples)
	require.NoError(t, err)

	assert.Contains(t, system, "Russian linguist")
	assert.Contains(t, system, "The one who experiences the fear")
	assert.Contains(t, system, "Not-Applicable")

	// One user/assistant pair per example plus the final user message
	require.Len(t, messages, 3)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "Я боюсь собак.", messages[0].Content)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, "user", messages[2].Role)
	assert.Contains(t, messages[2].Content, "Мама боится высоты.")
	assert.Contains(t, messages[2].Content, "Only identify roles that are explicitly present")

	// The assistant reply is valid markup and skips the predicate entity
	var markup models.RoleMarkup
	require.NoError(t, json.Unmarshal([]byte(messages[1].Content), &markup))
	require.Len(t, markup.Roles, 2)
	assert.Equal(t, "Experiencer", markup.Roles[0].ArgRole)
	assert.Equal(t, "Я", markup.Roles[0].ArgPhraseOrClause)
	assert.Equal(t, "Cause", markup.Roles[1].ArgRole)
	assert.Equal(t, "собак", markup.Roles[1].ArgPhraseOrClause)
	assert.Equal(t, "собак", markup.Roles[1].ArgMainIndicativeWord)
}

func TestBuildPromptNoExamples(t *testing.T) {
	ruleSet := models.RoleRuleSet{"Object": "The thing acted upon"}

	system, messages, err := BuildPrompt("Текст.", ruleSet, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, system)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].Role)
}

func TestBuildPromptKeepsCyrillicUnescaped(t *testing.T) {
	ruleSet := models.RoleRuleSet{"Experiencer": "Тот, кто испытывает страх"}

	system, _, err := BuildPrompt("Я боюсь.", ruleSet, nil)
	require.NoError(t, err)

	assert.Contains(t, system, "Тот, кто испытывает страх")
	assert.False(t, strings.Contains(system, `\u`), "ruleset should not be unicode-escaped")
}
