// Package config defines the JSON run configuration: where the feed tables
// live, how classification is bounded, and where the export goes.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/c360/semtransit/errors"
	"github.com/c360/semtransit/ingest"
	"github.com/c360/semtransit/vocabulary"
)

// Config is the complete run configuration.
type Config struct {
	// Version is the config schema version, semver.
	Version string `json:"version"`

	Ontology OntologyConfig `json:"ontology"`
	Tables   ingest.Sources `json:"tables"`
	Classify ClassifyConfig `json:"classify"`
	Output   OutputConfig   `json:"output"`
	Metrics  MetricsConfig  `json:"metrics,omitempty"`
}

// OntologyConfig controls the schema the run is built against.
type OntologyConfig struct {
	// BaseIRI is the namespace exported IRIs are minted under.
	BaseIRI string `json:"base_iri"`
	// FastTransferMaxSeconds is the FastTransfer/SlowTransfer boundary.
	FastTransferMaxSeconds float64 `json:"fast_transfer_max_seconds"`
}

// ClassifyConfig bounds the classification run.
type ClassifyConfig struct {
	// MaxPasses bounds the composite fixed-point iteration.
	MaxPasses int `json:"max_passes"`
}

// OutputConfig locates the export.
type OutputConfig struct {
	// Path is the N-Quads output file.
	Path string `json:"path"`
}

// MetricsConfig optionally exposes Prometheus metrics for the duration of
// the run. Disabled when Addr is empty.
type MetricsConfig struct {
	// Addr is the listen address, e.g. ":9090".
	Addr string `json:"addr,omitempty"`
}

// DefaultConfig returns a configuration with every tunable at its default.
// Table paths are empty: which tables to load is a per-run decision.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Ontology: OntologyConfig{
			BaseIRI:                vocabulary.DefaultBaseIRI,
			FastTransferMaxSeconds: vocabulary.DefaultFastTransferBound,
		},
		Classify: ClassifyConfig{
			MaxPasses: 0, // engine default
		},
		Output: OutputConfig{
			Path: "transport.nq",
		},
	}
}

// Load reads and validates a JSON config file. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("config %s: %w", path, err),
			"config", "Load", "read file")
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("config %s: %w", path, err),
			"config", "Load", "parse JSON")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	invalid := func(msg string) error {
		return errors.WrapInvalid(
			fmt.Errorf("%s: %w", msg, errors.ErrInvalidConfig),
			"config", "Validate", "check fields")
	}

	if c.Ontology.BaseIRI == "" {
		return invalid("ontology.base_iri must not be empty")
	}
	if c.Ontology.FastTransferMaxSeconds <= 0 {
		return invalid("ontology.fast_transfer_max_seconds must be positive")
	}
	if c.Classify.MaxPasses < 0 {
		return invalid("classify.max_passes must not be negative")
	}
	if c.Output.Path == "" {
		return invalid("output.path must not be empty")
	}

	for _, t := range []struct {
		name string
		src  ingest.Source
	}{
		{"stops", c.Tables.Stops},
		{"routes", c.Tables.Routes},
		{"trips", c.Tables.Trips},
		{"transfers", c.Tables.Transfers},
		{"pathways", c.Tables.Pathways},
		{"levels", c.Tables.Levels},
		{"fares", c.Tables.Fares},
	} {
		if t.src.MaxRows < 0 {
			return invalid(fmt.Sprintf("tables.%s.max_rows must not be negative", t.name))
		}
		if t.src.MaxRows > 0 && t.src.Path == "" {
			return invalid(fmt.Sprintf("tables.%s.max_rows set without a path", t.name))
		}
	}

	return nil
}
