package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/evsel/internal/config"
	"github.com/roach88/evsel/internal/event"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config holds analysis options in the YAML config layout. Omitted
	// fields keep their defaults.
	Config map[string]any `yaml:"config,omitempty"`

	// Dataset is the inline input. Exactly one of Dataset and DatasetFile
	// must be set.
	Dataset *event.Dataset `yaml:"dataset,omitempty"`

	// DatasetFile is a dataset path relative to the scenario file.
	DatasetFile string `yaml:"dataset_file,omitempty"`

	// Expect lists per-event expectations.
	Expect []EventExpectation `yaml:"expect,omitempty"`

	// Assertions validate run-level totals.
	// Supported types: selected_count, cutflow, weight_sum, variation_count
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID is the fixed run id. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`
}

// EventExpectation describes the expected outcome for one event number.
// Unset fields are not checked.
type EventExpectation struct {
	Event         uint64             `yaml:"event"`
	Selected      *bool              `yaml:"selected,omitempty"`
	NominalWeight *float64           `yaml:"nominal_weight,omitempty"`
	DefaultWeight *float64           `yaml:"default_weight,omitempty"`
	RelWeights    map[string]float64 `yaml:"rel_weights,omitempty"`
}

// Assertion validates a run-level total.
type Assertion struct {
	// Type specifies the assertion type:
	// - "selected_count": number of selected events equals Count
	// - "cutflow": number of events passing Filter equals Count
	// - "weight_sum": Σ nominal weight equals Value within Tolerance
	// - "variation_count": number of global variations equals Count
	Type string `yaml:"type"`

	Filter    string  `yaml:"filter,omitempty"`
	Count     int     `yaml:"count,omitempty"`
	Value     float64 `yaml:"value,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Assertion type constants.
const (
	AssertSelectedCount  = "selected_count"
	AssertCutflow        = "cutflow"
	AssertWeightSum      = "weight_sum"
	AssertVariationCount = "variation_count"
)

// DefaultTolerance is used by weight comparisons when none is given.
const DefaultTolerance = 1e-9

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields. A dataset_file is
// loaded relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.DatasetFile != "" {
		dsPath := scenario.DatasetFile
		if !filepath.IsAbs(dsPath) {
			dsPath = filepath.Join(filepath.Dir(path), dsPath)
		}
		ds, err := event.LoadDataset(dsPath)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: %w", err)
		}
		scenario.Dataset = ds
	}

	return &scenario, nil
}

// Options decodes the inline config on top of the defaults.
func (s *Scenario) Options() (*config.Options, error) {
	if len(s.Config) == 0 {
		opts := config.Default()
		return &opts, nil
	}
	data, err := yaml.Marshal(s.Config)
	if err != nil {
		return nil, fmt.Errorf("encode scenario config: %w", err)
	}
	return config.Parse(data, config.FormatYAML, s.Name)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Dataset == nil) == (s.DatasetFile == "") {
		return fmt.Errorf("exactly one of dataset and dataset_file is required")
	}

	if s.Dataset != nil {
		if err := s.Dataset.Validate(); err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
	}

	if len(s.Expect) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one expect entry or assertion is required")
	}

	seen := make(map[uint64]bool)
	for i, e := range s.Expect {
		if seen[e.Event] {
			return fmt.Errorf("expect[%d]: duplicate event %d", i, e.Event)
		}
		seen[e.Event] = true
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSelectedCount, AssertVariationCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertCutflow:
		if a.Filter == "" {
			return fmt.Errorf("assertions[%d]: filter is required for cutflow", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for cutflow", index)
		}
	case AssertWeightSum:
		if a.Tolerance < 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
