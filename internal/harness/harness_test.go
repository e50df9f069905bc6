package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evsel/internal/event"
	"github.com/roach88/evsel/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestRun_Scenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_Golden(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "zmumu_kfactor.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.Equal(t, "run-zmumu", result.Summary.RunID)
}

func inlineScenario() *Scenario {
	return &Scenario{
		Name:        "inline",
		Description: "inline scenario",
		Dataset: &event.Dataset{
			Name:       "inline",
			Simulation: true,
			Records:    []event.Record{testutil.ZMuMu(1), testutil.ZEE(2)},
		},
		Expect: []EventExpectation{
			{Event: 1, Selected: ptr(true), NominalWeight: ptr(1.0)},
		},
	}
}

func TestRun_InlineDefaults(t *testing.T) {
	result, err := Run(inlineScenario())
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Len(t, result.Trace, 2)
	assert.Equal(t, "test-run-default", result.Summary.RunID)
	assert.Equal(t, 1.0, result.Trace[0].RelWeights["me_renorm_up"])
}

func TestRun_CollectsMismatches(t *testing.T) {
	s := inlineScenario()
	s.Expect = []EventExpectation{
		{Event: 1, NominalWeight: ptr(3.0), RelWeights: map[string]float64{"pileup_up": 1}},
		{Event: 2, Selected: ptr(false)},
		{Event: 9, NominalWeight: ptr(1.0)},
	}
	s.Assertions = []Assertion{
		{Type: AssertSelectedCount, Count: 5},
		{Type: AssertCutflow, Filter: "nonexistent", Count: 1},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 6)
	assert.Contains(t, result.Errors[0], "event 1 nominal weight 3")
	assert.Contains(t, result.Errors[1], "no such variation")
	assert.Contains(t, result.Errors[2], "event 2 selected=false")
	assert.Contains(t, result.Errors[3], "event not selected")
	assert.Contains(t, result.Errors[4], "5 selected events")
	assert.Contains(t, result.Errors[5], "no such filter")
}

func TestRun_InlineConfig(t *testing.T) {
	s := inlineScenario()
	s.Config = map[string]any{
		"kfactor": map[string]any{"value": 1.5},
	}
	s.Expect = []EventExpectation{
		{Event: 1, NominalWeight: ptr(1.5), DefaultWeight: ptr(1.5)},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_InvalidConfig(t *testing.T) {
	s := inlineScenario()
	s.Config = map[string]any{"jetz": map[string]any{}}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario inline")
}

func TestRun_NoDataset(t *testing.T) {
	s := inlineScenario()
	s.Dataset = nil

	_, err := Run(s)
	require.Error(t, err)
}
