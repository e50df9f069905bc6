package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evsel/internal/pipeline"
	"github.com/roach88/evsel/internal/store"
)

const testDataset = "testdata/dy.yaml"

// newTestRunCommand returns a run command with fixed run ids and its
// captured stdout.
func newTestRunCommand(format string, ids ...string) (*cobra.Command, *bytes.Buffer) {
	if len(ids) == 0 {
		ids = []string{"run-1"}
	}
	cmd := newRunCommand(&RunOptions{
		RootOptions: &RootOptions{Format: format},
		RunIDs:      pipeline.NewFixedGenerator(ids...),
	})
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	return cmd, buf
}

func TestRunCommand_MissingDataset(t *testing.T) {
	cmd, _ := newTestRunCommand("text")
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestRunCommand_Text(t *testing.T) {
	cmd, buf := newTestRunCommand("text")
	cmd.SetArgs([]string{testDataset})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Run: run-1\n")
	assert.Contains(t, out, "Dataset: DYJetsToLL_M50 (simulation)\n")
	assert.Contains(t, out, "Events: 2 read, 1 selected\n")
	assert.Contains(t, out, "  trigger    1\n")
	assert.Contains(t, out, "  dilepton   1\n")
	assert.Contains(t, out, "  ptmiss     1\n")
	assert.Contains(t, out, "Weight sum: 1\n")
	assert.Contains(t, out, "    0  gen_weight         me_renorm_up     1\n")
	assert.NotContains(t, out, "Systematic:")
}

func TestRunCommand_JSON(t *testing.T) {
	cmd, buf := newTestRunCommand("json")
	cmd.SetArgs([]string{testDataset})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string           `json:"status"`
		Data   pipeline.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.Data.RunID)
	assert.Equal(t, int64(2), resp.Data.EventsRead)
	assert.Equal(t, int64(1), resp.Data.EventsSelected)
	assert.Len(t, resp.Data.ConfigHash, 64)
	assert.Len(t, resp.Data.Variations, 4)
}

func TestRunCommand_PersistsAndWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	metricsPath := filepath.Join(dir, "run.prom")

	cmd, _ := newTestRunCommand("text", "run-db")
	cmd.SetArgs([]string{"--db", dbPath, "--metrics", metricsPath, testDataset})
	require.NoError(t, cmd.Execute())

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.ReadRun(context.Background(), "run-db")
	require.NoError(t, err)
	assert.True(t, run.Completed)
	assert.Equal(t, int64(2), run.EventsRead)
	assert.Equal(t, int64(1), run.EventsSelected)

	events, err := st.ReadEvents(context.Background(), "run-db", false)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(1001), events[0].EventID)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "evsel_events_read_total 2")
	assert.Contains(t, string(prom), "evsel_events_selected_total 1")
}

func TestRunCommand_MaxEvents(t *testing.T) {
	cmd, buf := newTestRunCommand("text")
	cmd.SetArgs([]string{"--max-events", "1", testDataset})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Events: 1 read, 1 selected\n")
}

func TestRunCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	badConfig := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badConfig, []byte("jets:\n  eta_max: -1\n"), 0644))

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"missing dataset file", []string{"/nonexistent/dy.yaml"}, ExitCommandError, "failed to load dataset"},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.yaml"), testDataset}, ExitCommandError, "failed to load config"},
		{"invalid config", []string{"--config", badConfig, testDataset}, ExitCommandError, "jets.eta_max must be positive"},
		{"unsupported config", []string{"--config", filepath.Join(dir, "a.json"), testDataset}, ExitCommandError, "unsupported config extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, buf := newTestRunCommand("text")
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, buf.String(), "Error [")
		})
	}
}

func TestRunCommand_ConfigFile(t *testing.T) {
	cmd, buf := newTestRunCommand("text")
	cmd.SetArgs([]string{"--config", "testdata/analysis.yaml", testDataset})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Systematic: pileup_up\n")
	// ptmiss_min is 50 in the config file.
	assert.Contains(t, out, "Events: 2 read, 0 selected\n")
	assert.Contains(t, out, "  ptmiss     0\n")
}
