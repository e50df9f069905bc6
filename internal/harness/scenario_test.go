package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const minimalDataset = `
dataset:
  name: tiny
  simulation: false
  records:
    - { run: 1, lumi: 1, event: 1, trigger: true, ptmiss: { pt: 1, phi: 0 } }
`

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "data_selection.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data_selection", s.Name)
	require.NotNil(t, s.Dataset, "dataset_file is loaded relative to the scenario")
	assert.Equal(t, "SingleMuon_2018A", s.Dataset.Name)
	assert.Len(t, s.Dataset.Records, 5)
	assert.Len(t, s.Expect, 5)
	assert.Len(t, s.Assertions, 6)
	require.NotNil(t, s.Expect[0].Selected)
	assert.True(t, *s.Expect[0].Selected)
}

func TestLoadScenario_Options(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "data_selection.yaml"))
	require.NoError(t, err)

	opts, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, 10.0, opts.Selection.PtMissMin)
	require.NotNil(t, opts.KFactor)
	assert.Equal(t, 1.2, opts.KFactor.Value)
	assert.Equal(t, 91.1876, opts.Selection.ZMass)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\n" + minimalDataset + "assertions: [{type: selected_count, count: 0}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\n" + minimalDataset + "assertions: [{type: selected_count, count: 0}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no dataset",
			content: "name: n\ndescription: d\nassertions: [{type: selected_count, count: 0}]\n",
			wantErr: "exactly one of dataset and dataset_file is required",
		},
		{
			name:    "nothing to check",
			content: "name: n\ndescription: d\n" + minimalDataset,
			wantErr: "at least one expect entry or assertion is required",
		},
		{
			name:    "unknown assertion",
			content: "name: n\ndescription: d\n" + minimalDataset + "assertions: [{type: histogram}]\n",
			wantErr: `unknown assertion type "histogram"`,
		},
		{
			name:    "cutflow without filter",
			content: "name: n\ndescription: d\n" + minimalDataset + "assertions: [{type: cutflow, count: 1}]\n",
			wantErr: "filter is required for cutflow",
		},
		{
			name:    "duplicate expectation",
			content: "name: n\ndescription: d\n" + minimalDataset + "expect: [{event: 1}, {event: 1}]\n",
			wantErr: "duplicate event 1",
		},
		{
			name:    "unknown field",
			content: "name: n\ndescription: d\nasserts: []\n" + minimalDataset,
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing dataset file",
			content: "name: n\ndescription: d\ndataset_file: nope.yaml\nassertions: [{type: selected_count, count: 0}]\n",
			wantErr: "failed to read dataset file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
