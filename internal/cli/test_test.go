package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: zmumu_pass
description: one Z to mumu record is selected with unit weight
dataset:
  name: dy
  simulation: true
  records:
    - run: 1
      lumi: 1
      event: 7
      trigger: true
      muons:
        - { pt: 45, eta: 0, phi: 0, charge: 1, id: 3 }
        - { pt: 45, eta: 0, phi: 3.141592653589793, charge: -1, id: 3 }
      ptmiss: { pt: 10, phi: 0 }
      gen_weight: 1
expect:
  - event: 7
    selected: true
    nominal_weight: 1
assertions:
  - type: selected_count
    count: 1
`

const failingScenario = `name: zmumu_fail
description: expects a selection count the dataset cannot produce
dataset:
  name: dy
  simulation: true
  records:
    - { run: 1, lumi: 1, event: 8, trigger: false, ptmiss: { pt: 10, phi: 0 }, gen_weight: 1 }
assertions:
  - type: selected_count
    count: 1
`

// scenarioDir writes the given scenarios to <tmp>/scenarios and returns
// that directory.
func scenarioDir(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range scenarios {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func executeTest(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommand_MissingArgs(t *testing.T) {
	_, err := executeTest(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommand_NonExistentDir(t *testing.T) {
	_, err := executeTest(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommand_Empty(t *testing.T) {
	out, err := executeTest(t, "text", scenarioDir(t, nil))
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommand_EmptyJSON(t *testing.T) {
	out, err := executeTest(t, "json", scenarioDir(t, nil))
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Total)
}

func TestTestCommand_PassWithoutGolden(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"zmumu_pass.yaml": passingScenario})

	out, err := executeTest(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ zmumu_pass\n")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_GoldenRoundTrip(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"zmumu_pass.yaml": passingScenario})
	goldenPath := filepath.Join(filepath.Dir(dir), "golden", "zmumu_pass.golden")

	_, err := executeTest(t, "text", "--update", dir)
	require.NoError(t, err)
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name": "zmumu_pass"`)
	assert.Contains(t, string(golden), `"event_id": 7`)

	_, err = executeTest(t, "text", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_Failure(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"zmumu_pass.yaml": passingScenario,
		"zmumu_fail.yaml": failingScenario,
	})

	out, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ zmumu_fail\n")
	assert.Contains(t, out, "Assertion failed: selected_count")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_FailureJSON(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"zmumu_fail.yaml": failingScenario})

	out, err := executeTest(t, "json", dir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTestCommand_Filter(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"zmumu_pass.yaml": passingScenario,
		"zmumu_fail.yaml": failingScenario,
	})

	out, err := executeTest(t, "text", "--filter", "*_pass", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "zmumu_fail")
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"broken.yaml": "name: broken\n"})

	out, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml\n")
	assert.Contains(t, out, "failed to load scenario")
}
