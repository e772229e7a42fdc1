// Package resources loads and indexes the SRL resource files: the
// role mapping (predicate group -> role definitions), the form mapping
// (predicate group -> surface forms), and the grouped few-shot
// examples.
package resources

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/semkit/rolemark/internal/models"
)

// decodeFile unmarshals a resource file as JSON or YAML by extension
func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read resource file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML resource %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON resource %s: %w", path, err)
		}
	}
	return nil
}

// loadFiles reads and cross-validates the three resource files
func loadFiles(roleMappingPath, formMappingPath, examplesPath string) (models.RoleMapping, models.FormMapping, []models.Example, error) {
	var roleMapping models.RoleMapping
	if err := decodeFile(roleMappingPath, &roleMapping); err != nil {
		return nil, nil, nil, err
	}

	var formMapping models.FormMapping
	if err := decodeFile(formMappingPath, &formMapping); err != nil {
		return nil, nil, nil, err
	}

	var examples []models.Example
	if err := decodeFile(examplesPath, &examples); err != nil {
		return nil, nil, nil, err
	}

	if err := validate(roleMapping, formMapping, examples); err != nil {
		return nil, nil, nil, err
	}

	return roleMapping, formMapping, examples, nil
}

// validate checks cross-references between the three files
func validate(roleMapping models.RoleMapping, formMapping models.FormMapping, examples []models.Example) error {
	if len(roleMapping) == 0 {
		return fmt.Errorf("role mapping is empty")
	}
	if len(formMapping) == 0 {
		return fmt.Errorf("form mapping is empty")
	}

	for group, ruleSet := range roleMapping {
		if len(ruleSet) == 0 {
			return fmt.Errorf("role mapping group %q has no roles", group)
		}
	}

	for group, forms := range formMapping {
		if _, ok := roleMapping[group]; !ok {
			return fmt.Errorf("form mapping group %q has no role ruleset", group)
		}
		if len(forms) == 0 {
			return fmt.Errorf("form mapping group %q has no forms", group)
		}
	}

	for i, ex := range examples {
		if ex.Group == "" {
			return fmt.Errorf("example %d has no group", i)
		}
		if _, ok := roleMapping[ex.Group]; !ok {
			return fmt.Errorf("example %d references unknown group %q", i, ex.Group)
		}
		if ex.Text == "" {
			return fmt.Errorf("example %d (group %q) has no text", i, ex.Group)
		}
	}

	return nil
}
