package llm

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

// ModelInfo describes a model and what it supports.
type ModelInfo struct {
	ID          string `yaml:"id" json:"id"`
	Provider    string `yaml:"provider" json:"provider"`
	Description string `yaml:"description" json:"description"`
	Reasoning   bool   `yaml:"reasoning" json:"reasoning"`
}

// Catalog is a read-only registry of model capabilities.
type Catalog struct {
	models []ModelInfo
	byID   map[string]ModelInfo
}

// LoadCatalog parses the embedded model catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(modelsYAML)
}

// ParseCatalog builds a catalog from YAML of the form `models: [{id, provider, reasoning}]`.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Models []ModelInfo `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]ModelInfo, len(doc.Models))}
	for i, m := range doc.Models {
		if m.ID == "" {
			return nil, fmt.Errorf("model catalog entry %d has no id", i)
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("model catalog lists %q twice", m.ID)
		}
		c.byID[m.ID] = m
		c.models = append(c.models, m)
	}
	return c, nil
}

// Lookup returns the catalog entry for id.
func (c *Catalog) Lookup(id string) (ModelInfo, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// SupportsReasoning reports whether a thinking budget may be sent to id.
// Models missing from the catalog are treated as not supporting it.
func (c *Catalog) SupportsReasoning(id string) bool {
	return c.byID[id].Reasoning
}

// Models returns the entries in catalog order.
func (c *Catalog) Models() []ModelInfo {
	out := make([]ModelInfo, len(c.models))
	copy(out, c.models)
	return out
}
