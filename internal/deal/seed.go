package deal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cloud-ru/mcp-dealcalc-go/internal/calculations"
)

// LoadSeed читает начальную сделку из YAML файла
func LoadSeed(path string) (calculations.Deal, error) {
	f, err := os.Open(path)
	if err != nil {
		return calculations.Deal{}, fmt.Errorf("failed to open deal seed: %w", err)
	}
	defer f.Close()

	var d calculations.Deal
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return calculations.Deal{}, fmt.Errorf("failed to decode deal seed %s: %w", path, err)
	}
	return d, nil
}
