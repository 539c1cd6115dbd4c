package handoff

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// agentsFile is the on-disk shape of an agent declaration file.
type agentsFile struct {
	Agents []Agent `yaml:"agents"`
}

// LoadTableFromFile reads an agent declaration table from a YAML file of
// the form {agents: [{name, accepts_from, hands_off_to, workflow_stage}]}.
func LoadTableFromFile(path string) (Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		return nil, fmt.Errorf("read agents file %s: %w", path, err)
	}

	var f agentsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse agents file %s: %w", path, err)
	}

	table := make(Table, len(f.Agents))
	for i, a := range f.Agents {
		if a.Name == "" {
			return nil, fmt.Errorf("agents file %s: entry %d has no name", path, i)
		}
		if _, dup := table[a.Name]; dup {
			return nil, fmt.Errorf("agents file %s: duplicate agent %q", path, a.Name)
		}
		table[a.Name] = a
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("agents file %s: %w", path, err)
	}
	return table, nil
}
