package matrix

import (
	"fmt"
	"os"

	"github.com/jihwankim/agentforge/pkg/scenario"
	"gopkg.in/yaml.v3"
)

// variantDoc is the YAML-facing shape for a --variants file: a plain
// list of declarative overrides, decoded then converted to Variant
// (whose optional-override fields are pointers, not YAML-friendly on
// their own).
type variantDoc struct {
	Name        string                 `yaml:"name"`
	Seed        *int64                 `yaml:"seed,omitempty"`
	Ticks       *uint64                `yaml:"ticks,omitempty"`
	TickSeconds *float64               `yaml:"tickSeconds,omitempty"`
	Agents      []scenario.AgentConfig `yaml:"agents,omitempty"`
	Assertions  []scenario.Assertion   `yaml:"assertions,omitempty"`
}

// LoadVariantsFile reads a YAML document containing a list of named
// variant overrides.
func LoadVariantsFile(path string) ([]Variant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("matrix: read variants file %s: %w", path, err)
	}
	var docs []variantDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("matrix: parse variants file %s: %w", path, err)
	}

	out := make([]Variant, 0, len(docs))
	for i, d := range docs {
		if d.Name == "" {
			return nil, fmt.Errorf("matrix: variants[%d] has no name", i)
		}
		out = append(out, Variant{
			Name:        d.Name,
			Seed:        d.Seed,
			Ticks:       d.Ticks,
			TickSeconds: d.TickSeconds,
			Agents:      d.Agents,
			Assertions:  d.Assertions,
		})
	}
	return out, nil
}
