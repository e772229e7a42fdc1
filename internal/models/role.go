package models

// RoleLabel is a semantic role assignable to an argument of a predicate
type RoleLabel string

const (
	RoleCause         RoleLabel = "Cause"
	RoleExperiencer   RoleLabel = "Experiencer"
	RoleCausator      RoleLabel = "Causator"
	RoleDeliberative  RoleLabel = "Deliberative"
	RoleInstrument    RoleLabel = "Instrument"
	RoleObject        RoleLabel = "Object"
	RoleNotApplicable RoleLabel = "Not-Applicable"
)

// KnownRoles lists every role label the markup schema accepts
var KnownRoles = []RoleLabel{
	RoleCause,
	RoleExperiencer,
	RoleCausator,
	RoleDeliberative,
	RoleInstrument,
	RoleObject,
	RoleNotApplicable,
}

// IsKnownRole reports whether label is one of the accepted role labels
func IsKnownRole(label string) bool {
	for _, r := range KnownRoles {
		if string(r) == label {
			return true
		}
	}
	return false
}

// SemanticRole is a single role annotation in the API response
type SemanticRole struct {
	Role RoleLabel `json:"role"`
	Text string    `json:"text"`
}

// MarkupRole is a single role as produced by the LLM under the
// structured output schema
type MarkupRole struct {
	ShortReasoning        string `json:"short_reasoning"`
	ArgRole               string `json:"arg_role"`
	ArgPhraseOrClause     string `json:"arg_phrase_or_clause"`
	ArgMainIndicativeWord string `json:"arg_main_indicative_word"`
}

// RoleMarkup is the complete structured output contract for a labeling call
type RoleMarkup struct {
	Roles []MarkupRole `json:"roles"`
}
