package analyzer

import (
	"testing"

	"github.com/semkit/rolemark/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkup(t *testing.T) {
	raw := `{"roles": [{"short_reasoning": "subject experiences fear", "arg_role": "Experiencer", "arg_phrase_or_clause": "Я", "arg_main_indicative_word": "Я"}]}`

	markup, err := ParseMarkup(raw)
	require.NoError(t, err)
	require.Len(t, markup.Roles, 1)
	assert.Equal(t, "Experiencer", markup.Roles[0].ArgRole)
	assert.Equal(t, "Я", markup.Roles[0].ArgMainIndicativeWord)
}

func TestParseMarkupStripsCodeFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"roles\": []}\n```"},
		{"bare fence", "```\n{\"roles\": []}\n```"},
		{"leading whitespace", "  \n```json\n{\"roles\": []}\n```  "},
		{"no fence", `{"roles": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup, err := ParseMarkup(tt.raw)
			require.NoError(t, err)
			assert.Empty(t, markup.Roles)
		})
	}
}

func TestParseMarkupInvalid(t *testing.T) {
	_, err := ParseMarkup("not json at all")
	assert.Error(t, err)

	_, err = ParseMarkup("")
	assert.Error(t, err)
}

func TestConvertRoles(t *testing.T) {
	markup := &models.RoleMarkup{
		Roles: []models.MarkupRole{
			{ArgRole: "Experiencer", ArgPhraseOrClause: "Я", ArgMainIndicativeWord: "Я"},
			{ArgRole: "Cause", ArgPhraseOrClause: "больших собак", ArgMainIndicativeWord: "собак"},
		},
	}

	roles := ConvertRoles(markup)
	require.Len(t, roles, 2)
	assert.Equal(t, models.RoleExperiencer, roles[0].Role)
	assert.Equal(t, "Я", roles[0].Text)
	assert.Equal(t, models.RoleCause, roles[1].Role)
	assert.Equal(t, "собак", roles[1].Text)
}

func TestConvertRolesDropsNotApplicable(t *testing.T) {
	markup := &models.RoleMarkup{
		Roles: []models.MarkupRole{
			{ArgRole: "Not-Applicable", ArgPhraseOrClause: "Not-Applicable", ArgMainIndicativeWord: "Not-Applicable"},
		},
	}

	roles := ConvertRoles(markup)
	assert.Empty(t, roles)
}

func TestConvertRolesFallback(t *testing.T) {
	tests := []struct {
		name string
		role models.MarkupRole
		want models.SemanticRole
	}{
		{
			"experiencer takes first word",
			models.MarkupRole{ArgRole: "Experiencer", ArgPhraseOrClause: "Мама с детьми"},
			models.SemanticRole{Role: models.RoleExperiencer, Text: "Мама"},
		},
		{
			"other roles take last word",
			models.MarkupRole{ArgRole: "Cause", ArgPhraseOrClause: "больших чёрных собак"},
			models.SemanticRole{Role: models.RoleCause, Text: "собак"},
		},
		{
			"parenthetical narrows the phrase",
			models.MarkupRole{ArgRole: "Cause", ArgPhraseOrClause: "the argument (больших собак) fills this role"},
			models.SemanticRole{Role: models.RoleCause, Text: "собак"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := ConvertRoles(&models.RoleMarkup{Roles: []models.MarkupRole{tt.role}})
			require.Len(t, roles, 1)
			assert.Equal(t, tt.want, roles[0])
		})
	}
}

func TestConvertRolesSkipsEmptyPhrases(t *testing.T) {
	markup := &models.RoleMarkup{
		Roles: []models.MarkupRole{
			{ArgRole: "Cause"},
			{ArgRole: "", ArgPhraseOrClause: "собак", ArgMainIndicativeWord: "собак"},
		},
	}

	roles := ConvertRoles(markup)
	assert.Empty(t, roles)

	assert.Empty(t, ConvertRoles(nil))
}
