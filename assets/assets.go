// Package assets embeds static data shipped with the binary.
package assets

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

// CategoryCatalog is the suggested category list per transaction type.
// Categories remain free-form strings; this catalog only feeds pickers.
type CategoryCatalog struct {
	Expense []string `yaml:"expense" json:"expense"`
	Income  []string `yaml:"income" json:"income"`
}

// Categories parses the embedded catalog.
func Categories() (CategoryCatalog, error) {
	var c CategoryCatalog
	if err := yaml.Unmarshal(categoriesYAML, &c); err != nil {
		return CategoryCatalog{}, fmt.Errorf("parse categories catalog: %w", err)
	}
	return c, nil
}
