package models

import "strings"

// RoleRuleSet maps role names to their definitions for one predicate group.
// The set is rendered verbatim into the system prompt.
type RoleRuleSet map[string]string

// RoleMapping maps predicate groups to their role rulesets
type RoleMapping map[string]RoleRuleSet

// FormMapping maps predicate groups to the surface forms of their predicates
type FormMapping map[string][]string

// ExampleRole is one annotated argument in a training example.
// Entity is encoded as "<phrase>#<role>"; entities tagged with
// "#predicate" mark the predicate itself rather than an argument.
type ExampleRole struct {
	Entity string `json:"entity" yaml:"entity"`
}

// IsPredicate reports whether the entity marks the predicate
func (r ExampleRole) IsPredicate() bool {
	return strings.Contains(r.Entity, "#predicate")
}

// Split decodes the entity into its phrase and role parts.
// The phrase side may carry a leading "- " list marker.
func (r ExampleRole) Split() (phrase, role string, ok bool) {
	idx := strings.Index(r.Entity, "#")
	if idx < 0 {
		return "", "", false
	}
	phrase = strings.Trim(r.Entity[:idx], "- ")
	role = r.Entity[idx+1:]
	if phrase == "" || role == "" {
		return "", "", false
	}
	return phrase, role, true
}

// Example is a single grouped few-shot example
type Example struct {
	Group string        `json:"group" yaml:"group"`
	Text  string        `json:"text" yaml:"text"`
	Roles []ExampleRole `json:"roles" yaml:"roles"`
}

// GroupInfo summarizes one predicate group for the API
type GroupInfo struct {
	Group        string      `json:"group"`
	Roles        RoleRuleSet `json:"roles"`
	FormCount    int         `json:"form_count"`
	ExampleCount int         `json:"example_count"`
}
