package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/semkit/rolemark/internal/models"
)

// formatAnalysis formats an analysis result as markdown
func formatAnalysis(analysis *models.Analysis) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Analysis %s\n\n", analysis.ID))
	sb.WriteString(fmt.Sprintf("**Text:** %s\n", analysis.Text))

	if !analysis.HasRelevantPredicates {
		sb.WriteString("\nNo relevant predicates found. The text contains no verbs from a known predicate group.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("**Predicates:** %s\n", strings.Join(analysis.Predicates, ", ")))
	sb.WriteString(fmt.Sprintf("**Lemmas:** %s\n", strings.Join(analysis.Lemmas, ", ")))
	sb.WriteString(fmt.Sprintf("**Group:** %s\n", analysis.PredicateGroup))
	if analysis.Provider != "" {
		sb.WriteString(fmt.Sprintf("**Backend:** %s (%s)\n", analysis.Provider, analysis.Model))
	}
	if analysis.Cached {
		sb.WriteString("**Cached:** yes\n")
	}

	if analysis.Error != "" {
		sb.WriteString(fmt.Sprintf("\n**Labeling error:** %s\n", analysis.Error))
		return sb.String()
	}

	sb.WriteString("\n### Roles\n\n")
	if len(analysis.Roles) == 0 {
		sb.WriteString("No roles identified.\n")
		return sb.String()
	}

	for _, role := range analysis.Roles {
		sb.WriteString(fmt.Sprintf("- **%s:** %s\n", role.Role, role.Text))
	}

	return sb.String()
}

// formatExtraction formats a predicate extraction result as markdown
func formatExtraction(extraction *models.PredicateExtraction) string {
	var sb strings.Builder
	sb.WriteString("## Predicate Extraction\n\n")
	sb.WriteString(fmt.Sprintf("**Text:** %s\n", extraction.Text))

	if len(extraction.Predicates) == 0 {
		sb.WriteString("\nNo verbs detected.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("**Predicates:** %s\n", strings.Join(extraction.Predicates, ", ")))
	sb.WriteString(fmt.Sprintf("**Lemmas:** %s\n", strings.Join(extraction.Lemmas, ", ")))
	if extraction.HasRelevantPredicates {
		sb.WriteString(fmt.Sprintf("**Group:** %s\n", extraction.PredicateGroup))
	} else {
		sb.WriteString("\nNone of the detected verbs belong to a known predicate group.\n")
	}

	return sb.String()
}

// formatGroups formats the predicate group inventory as markdown
func formatGroups(groups []models.GroupInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Predicate Groups (%d)\n\n", len(groups)))

	if len(groups) == 0 {
		sb.WriteString("No predicate groups loaded.\n")
		return sb.String()
	}

	for _, group := range groups {
		sb.WriteString(fmt.Sprintf("### %s\n", group.Group))
		sb.WriteString(fmt.Sprintf("**Forms:** %d, **Examples:** %d\n", group.FormCount, group.ExampleCount))

		rolesJSON, err := json.MarshalIndent(group.Roles, "", "  ")
		if err == nil && len(rolesJSON) > 0 {
			sb.WriteString("**Roles:**\n```json\n")
			sb.Write(rolesJSON)
			sb.WriteString("\n```\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
