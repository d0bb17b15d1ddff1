package model

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a facility definition from a YAML file and builds the arena.
func Load(path string) (*Facility, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facility file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing facility YAML: %w", err)
	}

	fac, err := Build(&def)
	if err != nil {
		return nil, fmt.Errorf("building facility %q: %w", def.Name, err)
	}
	return fac, nil
}

// LoadProject loads a facility definition from a project directory.
// It looks for facility.yaml in the given directory.
func LoadProject(projectDir string) (*Facility, error) {
	return Load(filepath.Join(projectDir, "facility.yaml"))
}
