package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evsel/internal/weight"
)

func executeVariations(t *testing.T, format string, args ...string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewVariationsCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestVariationsCommand_Golden(t *testing.T) {
	out := executeVariations(t, "text", "--config", "testdata/analysis.yaml", "--simulation")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "variations", []byte(out))
}

func TestVariationsCommand_RealData(t *testing.T) {
	out := executeVariations(t, "text", "--config", "testdata/analysis.yaml")
	assert.Equal(t, "No variations (nominal weights only).\n", out)
}

func TestVariationsCommand_JSON(t *testing.T) {
	out := executeVariations(t, "json", "--simulation")

	var resp struct {
		Status string             `json:"status"`
		Data   []weight.Variation `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 4)
	assert.Equal(t, weight.Variation{Index: 3, Component: "gen_weight", Local: 3, Name: "me_factor_down"}, resp.Data[3])
}

func TestVariationsCommand_JSONEmpty(t *testing.T) {
	out := executeVariations(t, "json")
	assert.Contains(t, out, `"data": []`)
}
