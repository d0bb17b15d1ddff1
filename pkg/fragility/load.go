package fragility

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	ComponentTypes map[string]Table `yaml:"component_types"`
}

// Load reads a fragility table set from a YAML file.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fragility file: %w", err)
	}

	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parsing fragility YAML: %w", err)
	}
	return Set(ff.ComponentTypes), nil
}

// LoadProject loads fragility tables from a project directory.
// It looks for fragility.yaml in the given directory.
func LoadProject(projectDir string) (Set, error) {
	return Load(filepath.Join(projectDir, "fragility.yaml"))
}
