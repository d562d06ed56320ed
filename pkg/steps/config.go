package steps

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// stepsDocument is the YAML shape for externally maintained step tables.
type stepsDocument struct {
	Steps []Definition `yaml:"steps"`
}

// LoadDefinitions parses a YAML step table. Each entry must declare a step
// number in range and at least one field; alias validity is checked later,
// at engine construction, against the registry.
func LoadDefinitions(raw []byte) ([]Definition, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("steps: definitions document is empty")
	}

	var doc stepsDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("steps: parse definitions: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("steps: definitions document declares no steps")
	}

	for _, definition := range doc.Steps {
		if definition.Number < 1 || definition.Number > StepCount {
			return nil, fmt.Errorf("steps: step number %d outside 1..%d", definition.Number, StepCount)
		}
		if len(definition.Fields) == 0 {
			return nil, fmt.Errorf("steps: step %d declares no fields", definition.Number)
		}
	}
	return doc.Steps, nil
}
