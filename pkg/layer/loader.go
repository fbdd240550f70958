package layer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StackFile is the on-disk layer stack document.
type StackFile struct {
	Project string `yaml:"project"`
	Unit    string `yaml:"unit"`
	Layers  []Spec `yaml:"layers"`
}

// LoadFile reads a YAML layer stack file and builds the validated table.
// The returned StackFile carries the project metadata alongside the table.
func LoadFile(path string) (*Table, *StackFile, []Warning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read layer stack: %w", err)
	}
	return ParseStack(raw)
}

// ParseStack parses a YAML layer stack document and builds the table.
func ParseStack(raw []byte) (*Table, *StackFile, []Warning, error) {
	var file StackFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, nil, nil, fmt.Errorf("parse layer stack: %w", err)
	}
	table, warnings, err := Load(file.Layers)
	if err != nil {
		return nil, nil, nil, err
	}
	return table, &file, warnings, nil
}
