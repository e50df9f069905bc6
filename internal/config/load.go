package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Format identifies a configuration syntax.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q (want .cue, .toml, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads, decodes and validates an options file.
func Load(path string) (*Options, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	opts, err := Parse(data, format, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Parse decodes options in the given format on top of Default and
// validates the result. name is used in CUE error positions.
func Parse(data []byte, format Format, name string) (*Options, error) {
	opts := Default()

	var err error
	switch format {
	case FormatCUE:
		err = decodeCUE(data, name, &opts)
	case FormatTOML:
		err = decodeTOML(data, &opts)
	case FormatYAML:
		err = decodeYAML(data, &opts)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &opts, nil
}

// decodeCUE unifies the file with #Options, then overlays the exported JSON
// on opts.
func decodeCUE(data []byte, name string, opts *Options) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling embedded schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Options"))

	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return fmt.Errorf("compiling CUE: %w", err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validating CUE against schema: %w", err)
	}

	raw, err := unified.MarshalJSON()
	if err != nil {
		return fmt.Errorf("exporting CUE: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("decoding CUE export: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, opts *Options) error {
	md, err := toml.Decode(string(data), opts)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown TOML keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, opts *Options) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}
