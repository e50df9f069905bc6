// Package config loads and validates analysis options.
//
// Options can be written in CUE, TOML or YAML; the loader picks the format
// from the file extension. CUE files are unified with an embedded schema
// (schema.cue) before decoding, so type errors and unknown fields are
// reported with CUE positions. TOML and YAML files reject unknown keys.
//
// Every loader starts from Default and overlays the file, so any section may
// be omitted. Optional correction sections (pileup, lepton_efficiency,
// kfactor) stay nil when absent; the corresponding weight components then
// degrade to weight 1 with no variations.
//
// Hash returns a content address of the effective options that is stable
// across formats: the same options written in CUE, TOML or YAML hash
// identically.
package config
