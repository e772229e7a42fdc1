package llm

// RoleMarkupSchema returns the JSON schema used to constrain markup output.
// vLLM receives it as a guided_json grammar; Gemini as a response schema.
func RoleMarkupSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"roles": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"short_reasoning": map[string]interface{}{
							"type":        "string",
							"description": "Brief explanation of why the role was assigned",
						},
						"arg_role": map[string]interface{}{
							"type":        "string",
							"description": "Semantic role name from the ruleset",
						},
						"arg_phrase_or_clause": map[string]interface{}{
							"type":        "string",
							"description": "The full argument phrase or clause",
						},
						"arg_main_indicative_word": map[string]interface{}{
							"type":        "string",
							"description": "Single word that best represents the argument",
						},
					},
					"required": []string{"short_reasoning", "arg_role", "arg_phrase_or_clause", "arg_main_indicative_word"},
				},
			},
		},
		"required": []string{"roles"},
	}
}
