package event

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Dataset is an ordered collection of records sharing simulation status.
type Dataset struct {
	Name       string   `yaml:"name"`
	Simulation bool     `yaml:"simulation"`
	Records    []Record `yaml:"records"`
}

// LoadDataset reads and parses a dataset YAML file.
// Unknown fields are rejected to catch typos in hand-written fixtures.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	d, err := ParseDataset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ParseDataset parses dataset YAML from memory.
func ParseDataset(data []byte) (*Dataset, error) {
	var d Dataset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty dataset")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	return &d, nil
}

// Validate checks structural constraints on the dataset.
func (d *Dataset) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	for i, r := range d.Records {
		if n := len(r.ScaleWeights); n != 0 && n != 4 {
			return fmt.Errorf("records[%d]: scale_weights must have 0 or 4 entries, got %d", i, n)
		}
		if !d.Simulation && (r.GenWeight != 0 || len(r.ScaleWeights) != 0) {
			return fmt.Errorf("records[%d]: generator weights present in real data", i)
		}
	}
	return nil
}
