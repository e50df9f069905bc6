package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectAnalysisOptions(t *testing.T, opts *Options) {
	t.Helper()

	assert.Equal(t, "pileup_up", opts.Syst)
	assert.Equal(t, 0.2, opts.Jets.Resolution)
	assert.Equal(t, 4, opts.Jets.SmearingChannels)
	assert.Equal(t, 30.0, opts.Jets.Pt, "unspecified field keeps default")
	assert.Equal(t, 50.0, opts.Selection.PtMissMin)
	assert.Equal(t, 91.1876, opts.Selection.ZMass)

	require.NotNil(t, opts.Pileup)
	assert.Equal(t, []float64{0, 20, 40, 80}, opts.Pileup.Edges)
	assert.Equal(t, []float64{1.2, 1.0, 0.7}, opts.Pileup.Nominal)
	assert.Equal(t, []float64{1.1, 0.95, 0.8}, opts.Pileup.Down)

	require.NotNil(t, opts.KFactor)
	assert.Equal(t, 1.1, opts.KFactor.Value)
	assert.Equal(t, 0.05, opts.KFactor.Uncertainty)

	assert.Nil(t, opts.LeptonEfficiency)
}

func TestLoad_AllFormats(t *testing.T) {
	for _, file := range []string{"analysis.cue", "analysis.toml", "analysis.yaml"} {
		t.Run(file, func(t *testing.T) {
			opts, err := Load(filepath.Join("testdata", file))
			require.NoError(t, err)
			expectAnalysisOptions(t, opts)
		})
	}
}

func TestLoad_SameHashAcrossFormats(t *testing.T) {
	var hashes []string
	for _, file := range []string{"analysis.cue", "analysis.toml", "analysis.yaml"} {
		opts, err := Load(filepath.Join("testdata", file))
		require.NoError(t, err)
		h, err := opts.Hash()
		require.NoError(t, err)
		hashes = append(hashes, h)
	}
	assert.Equal(t, hashes[0], hashes[1])
	assert.Equal(t, hashes[0], hashes[2])
	assert.Len(t, hashes[0], 64)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.cue":     FormatCUE,
		"a.toml":    FormatTOML,
		"a.yaml":    FormatYAML,
		"dir/a.YML":  FormatYAML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("a.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config extension")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	for _, format := range []Format{FormatCUE, FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			opts, err := Parse(nil, format, "empty")
			require.NoError(t, err)
			assert.Equal(t, Default(), *opts)
		})
	}
}

func TestParse_UnknownFieldsRejected(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatCUE, "jets: resolutoin: 0.1\n"},
		{FormatTOML, "[jets]\nresolutoin = 0.1\n"},
		{FormatYAML, "jets:\n  resolutoin: 0.1\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format, "typo")
			require.Error(t, err)
		})
	}
}

func TestParse_CUESchemaConstraint(t *testing.T) {
	_, err := Parse([]byte("selection: trigger_efficiency: 2\n"), FormatCUE, "bad.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating CUE against schema")
}

func TestParse_ValidationAfterDecode(t *testing.T) {
	_, err := Parse([]byte("muons:\n  tight_pt: 1\n"), FormatYAML, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid options")
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), Format("json"), "x")
	require.Error(t, err)
}

func TestLoad_WrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	require.NoError(t, os.WriteFile(path, []byte("syst = \"kfactor_up\"\n[kfactor]\nvalue = 1.3\n"), 0644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kfactor_up", opts.Syst)
	assert.Equal(t, 1.3, opts.KFactor.Value)
	assert.Equal(t, 0.0, opts.KFactor.Uncertainty)
}
